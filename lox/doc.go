// Package lox implements a tree-walking interpreter for the Lox language:
//   - Numbers (float64), strings, booleans and nil, with nil and false as
//     the only falsy values.
//   - Global and block-scoped variables resolved statically to a fixed hop
//     distance.
//   - First-class functions and closures over their defining scope.
//   - Classes with single inheritance, initializers, `this` and `super`.
//   - Control flow via if/else, while, for and `and`/`or`.
//
// Comments begin with `//`. Source runs through Scan, Parse, Resolve and an
// Interpreter; Engine wires the phases together and keeps globals between
// runs. Static errors are collected as Diagnostics and reported together,
// runtime errors abort the program with a RuntimeError.
package lox
