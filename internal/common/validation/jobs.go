package validation

// Job documents arriving as process variables. Text fields must contain at
// least one non-space character; dates are ISO calendar dates.
const (
	jobDocumentSchema = `{
		"type": "object",
		"required": ["company", "role", "date_applied", "platform", "interviewed", "num_interviews", "status"],
		"properties": {
			"id":             {"type": "string"},
			"company":        {"type": "string", "pattern": "\\S"},
			"role":           {"type": "string", "pattern": "\\S"},
			"date_applied":   {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
			"platform":       {"type": "string", "pattern": "\\S"},
			"interviewed":    {"type": "boolean"},
			"num_interviews": {"type": "integer", "minimum": 0},
			"status":         {"type": "string", "pattern": "\\S"},
			"created_at":     {"type": "string"},
			"updated_at":     {"type": "string"}
		},
		"additionalProperties": false
	}`

	jobPatchSchema = `{
		"type": "object",
		"properties": {
			"company":        {"type": "string", "pattern": "\\S"},
			"role":           {"type": "string", "pattern": "\\S"},
			"date_applied":   {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
			"platform":       {"type": "string", "pattern": "\\S"},
			"interviewed":    {"type": "boolean"},
			"num_interviews": {"type": "integer", "minimum": 0},
			"status":         {"type": "string", "pattern": "\\S"}
		},
		"additionalProperties": false
	}`

	jobFilterSchema = `{
		"type": "object",
		"properties": {
			"status":       {"type": "string"},
			"platform":     {"type": "string"},
			"applied_from": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
			"applied_to":   {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
			"limit":        {"type": "integer", "minimum": 0}
		},
		"additionalProperties": false
	}`
)

var (
	JobDocument = MustCompile(jobDocumentSchema)
	JobPatch    = MustCompile(jobPatchSchema)
	JobFilter   = MustCompile(jobFilterSchema)
)
