package mailer

// Notification templates put on the RabbitMQ queue.
const (
	TemplateWelcome       = "welcome"
	TemplateLeadConverted = "lead_converted"
)

// EmailJob is the JSON payload consumed by cmd/notify_worker. Either a
// Template with Data, or a raw Subject with Text/HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
