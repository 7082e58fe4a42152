// Package command holds the contract types shared between the runtime and
// feature modules: command keys and kinds, declarative schemas, responses,
// and decoded interactions.
package command
