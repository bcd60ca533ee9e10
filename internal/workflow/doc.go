// Package workflow turns a template of step specifications into an executed
// run against one document.
//
// A template lists steps with declared dependencies (by step title or
// 1-based index). Starting a workflow instantiates every spec into a pending
// step in template order; Run then repeatedly executes the first eligible
// pending step through a StepExecutor until none remain. A step whose
// dependency failed stays pending (blocked) without cascading the error;
// independent branches keep running. Step status moves pending ->
// in-progress -> completed | error exactly once.
package workflow
