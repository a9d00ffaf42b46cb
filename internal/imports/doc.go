// Package imports reconstructs JS/TS import statements with regular
// expressions and reports identifiers that are bound but never referenced.
//
// The recognizers are deliberately approximate: there is no tokenizer, so
// imports inside comments or strings are picked up like real ones, and uses
// inside comments or strings count as references. Callers that need exact
// results can supply another Extractor.
package imports
