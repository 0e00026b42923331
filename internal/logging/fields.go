package logging

// Standardized attribute keys shared across pipeline components.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldRunID     = "run_id"
	FieldSlug      = "slug"
	FieldArticleID = "article_id"
	FieldStage     = "stage"
)
