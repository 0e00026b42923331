// Package services defines the shared error taxonomy and context
// annotations used across pipeline components. Sentinel markers classify
// failures so the orchestrator can decide between aborting a run and
// skipping a single article without inspecting error strings.
package services
