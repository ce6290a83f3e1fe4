// Package catalogschema derives composable JSON Schema documents from a tree of
// annotated JavaScript catalog model classes.
//
// Each model file holds one class that inherits from exactly one parent. The
// derivation recovers, from source text and JSDoc comments only:
//
// - the parent class and the line where inherited members begin (internal/hierarchy)
// - the documented own properties of the class (internal/jsdoc, internal/docmodel)
// - a schema type, title, description and format per property (internal/resolve)
//
// and then emits one schema per class, one type-pinning shell per concrete
// class (internal/compose) and a collection schema that validates a
// heterogeneous list of catalog members (internal/union).
//
// Design policy:
// - Keep the shared model types, error codes and enums in this root package.
// - Put each pipeline stage under internal/; the generator package wires them.
// - The CLI lives under cmd/catalogschema.
//
// Typical usage:
//
//	g := generator.New(generator.Options{Mode: catalogschema.ModeValidation}, sink, docs, logger)
//	report, err := g.Run(ctx, files)
//	if fs, ok := catalogschema.AsFailures(err); ok {
//		// inspect per-class failures
//	}
package catalogschema
