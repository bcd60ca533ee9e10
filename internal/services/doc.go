// Package services defines the error taxonomy shared by the pipeline
// components and the external API clients.
//
// Every failure surfaced to a caller is tagged with one of the exported
// sentinel errors so CLI code and the workflow engine can classify it with
// errors.Is without inspecting message text.
package services
