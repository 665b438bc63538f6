package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet, CSRF helper).
//
//go:embed static/*
var StaticFS embed.FS
