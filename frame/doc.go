// Package frame is a reference debuggee for the lang package: a suspended
// stack frame loaded from a YAML snapshot that answers evaluator and
// type-system queries, and re-runs linearized lambdas with expr-lang.
//
// A snapshot names the enclosing type, the receiver, the visible locals, the
// declared types, and the namespaces in scope:
//
//	enclosing: App.Program
//	this:
//	  value: {count: 3, name: demo}
//	locals:
//	  y: {value: 5}
//	types:
//	  App.Program:
//	    display: Program
//	    base: App.Base
//	    members:
//	      count: {kind: field}
//	      Name: {kind: property, public: true, type: System.String}
//	    methods:
//	      Scale: {}
//	      Create: {static: true}
//	namespaces: [System, App]
//
// Locals without a type are typed from their decoded value (for example an
// integer is a System.Int32). Types that are not declared are public and
// have no members beyond the keys of the decoded object.
package frame
