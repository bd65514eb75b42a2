// Package garage is a small domain wired through a modular container: a car
// factory, an event bus and a honda module that announces its car and honks
// on request.
package garage
