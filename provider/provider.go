// Package provider defines translation engines producing aligned responses.
package provider

import "github.com/ZaguanLabs/gotalign"

// Engine is an alias to the main package interface for convenience.
type Engine = gotalign.Engine

// EngineRequest is an alias to the main package type.
type EngineRequest = gotalign.EngineRequest

// Response is an alias to the main package type.
type Response = gotalign.Response
