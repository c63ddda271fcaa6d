package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

type templateSource struct {
	subject string
	text    string
	html    string
}

var sources = map[domain.TemplateKind]templateSource{
	domain.TemplateWelcome: {
		subject: `Welcome to {{.App}}`,
		text: `Hi {{.RecipientName}},

Your {{.App}} account is ready. Sign in at {{.URL}} to start chatting.
`,
		html: `<p>Hi {{.RecipientName}},</p><p>Your {{.App}} account is ready.</p><p><a href="{{.URL}}">Sign in</a> to start chatting.</p>`,
	},
	domain.TemplateLoginAlert: {
		subject: `New sign-in to {{.App}}`,
		text: `Hi {{.RecipientName}},

Your account signed in at {{.When}}. If this was not you, change your password.
`,
	},
	domain.TemplateCounterpartyNewRegistration: {
		subject: `{{.SubjectName}} joined {{.App}}`,
		text: `Hi {{.RecipientName}},

{{.SubjectName}} ({{.SubjectEmail}}) registered at {{.When}}.
`,
	},
	domain.TemplateCounterpartyLoginAlert: {
		subject: `{{.SubjectName}} is online`,
		text: `Hi {{.RecipientName}},

{{.SubjectName}} signed in at {{.When}}. Say hello at {{.URL}}.
`,
	},
	domain.TemplateMessageReceived: {
		subject: `New message from {{.SubjectName}}`,
		text: `Hi {{.RecipientName}},

{{.SubjectName}} wrote:

{{.Content}}

Reply at {{.URL}}
`,
		html: `<p>Hi {{.RecipientName}},</p><p>{{.SubjectName}} wrote:</p><blockquote>{{.Content}}</blockquote><p><a href="{{.URL}}">Reply</a></p>`,
	},
	domain.TemplateMessageSentConfirmation: {
		subject: `Your message to {{.SubjectName}} was sent`,
		text: `Hi {{.RecipientName}},

We delivered your message to {{.SubjectName}} at {{.When}}:

{{.Content}}
`,
	},
	domain.TemplateActivityCompleted: {
		subject: `Activity recorded: {{.ActivityType}}`,
		text: `Hi {{.RecipientName}},

We recorded "{{.ActivityType}}" at {{.When}}.{{if .ActivityDetails}}

Details: {{.ActivityDetails}}{{end}}
`,
	},
	domain.TemplateCounterpartyActivityAlert: {
		subject: `{{.SubjectName}}: {{.ActivityType}}`,
		text: `Hi {{.RecipientName}},

{{.SubjectName}} recorded "{{.ActivityType}}" at {{.When}}.{{if .ActivityDetails}}

Details: {{.ActivityDetails}}{{end}}
`,
	},
}

type compiled struct {
	subject *template.Template
	text    *template.Template
	html    *htmltemplate.Template
}

// Templates renders notification mail for every domain.TemplateKind.
type Templates struct {
	app   string
	url   string
	kinds map[domain.TemplateKind]compiled
}

// templateData is what the template bodies see.
type templateData struct {
	domain.NotificationContext
	App  string
	URL  string
	When string
}

// NewTemplates parses the built-in templates. appURL is linked from bodies
// that invite the recipient back.
func NewTemplates(appName, appURL string) (*Templates, error) {
	t := &Templates{app: appName, url: appURL, kinds: make(map[domain.TemplateKind]compiled, len(sources))}
	for _, kind := range domain.TemplateKinds {
		src, ok := sources[kind]
		if !ok {
			return nil, fmt.Errorf("notify: no template for %q", kind)
		}
		var c compiled
		var err error
		if c.subject, err = template.New(string(kind) + ".subject").Parse(src.subject); err != nil {
			return nil, fmt.Errorf("notify: parse %s subject: %w", kind, err)
		}
		if c.text, err = template.New(string(kind) + ".txt").Parse(src.text); err != nil {
			return nil, fmt.Errorf("notify: parse %s text: %w", kind, err)
		}
		if src.html != "" {
			if c.html, err = htmltemplate.New(string(kind) + ".html").Parse(src.html); err != nil {
				return nil, fmt.Errorf("notify: parse %s html: %w", kind, err)
			}
		}
		t.kinds[kind] = c
	}
	return t, nil
}

// Render produces the mail for kind addressed to address.
func (t *Templates) Render(kind domain.TemplateKind, address string, data domain.NotificationContext) (ports.Mail, error) {
	c, ok := t.kinds[kind]
	if !ok {
		return ports.Mail{}, fmt.Errorf("notify: unknown template %q", kind)
	}
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}
	if data.RecipientName == "" {
		data.RecipientName = localPart(address)
	}
	td := templateData{
		NotificationContext: data,
		App:                 t.app,
		URL:                 t.url,
		When:                data.Timestamp.UTC().Format("Jan 2, 2006 15:04 MST"),
	}

	var subject, text bytes.Buffer
	if err := c.subject.Execute(&subject, td); err != nil {
		return ports.Mail{}, fmt.Errorf("notify: render %s subject: %w", kind, err)
	}
	if err := c.text.Execute(&text, td); err != nil {
		return ports.Mail{}, fmt.Errorf("notify: render %s text: %w", kind, err)
	}
	m := ports.Mail{
		To:      address,
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
	}
	if c.html != nil {
		var html bytes.Buffer
		if err := c.html.Execute(&html, td); err != nil {
			return ports.Mail{}, fmt.Errorf("notify: render %s html: %w", kind, err)
		}
		m.HTML = html.String()
	}
	return m, nil
}

func localPart(address string) string {
	if i := strings.IndexByte(address, '@'); i > 0 {
		return address[:i]
	}
	return address
}
