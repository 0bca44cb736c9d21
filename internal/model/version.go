package model

// Version is the application version, overridden at build time with
// -ldflags "-X codeflow/internal/model.Version=...".
var Version = "0.3.0"
