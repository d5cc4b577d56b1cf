package application

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Apurer/go-order-service/internal/domains/notifications/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var messageTemplates = template.Must(template.New("notifications").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"))

type orderData struct {
	OrderID int64
}

type resetData struct {
	Token string
}

// render executes the subject and body templates defined for kind.
func render(kind domain.Kind, data any) (string, string, error) {
	subject, err := execute(string(kind)+".subject", data)
	if err != nil {
		return "", "", err
	}
	body, err := execute(string(kind)+".body", data)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(subject), body, nil
}

func execute(name string, data any) (string, error) {
	var sb strings.Builder
	if err := messageTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
