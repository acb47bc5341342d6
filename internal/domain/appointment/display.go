package appointment

import (
	"net/url"
	"strings"

	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

const (
	DefaultClientName  = "Cliente"
	DefaultClientPhone = "Sin teléfono"

	DefaultContactMessage = "Hola! Te confirmo tu turno en la barbería."
)

// ClientName prefers the flattened cliente_nombre, then the nested client.
func ClientName(ap *models.Appointment) string {
	if n := strings.TrimSpace(ap.ClientName); n != "" {
		return n
	}
	if ap.Client != nil {
		if n := strings.TrimSpace(ap.Client.Name); n != "" {
			return n
		}
	}
	return DefaultClientName
}

func ClientPhone(ap *models.Appointment) string {
	if p := strings.TrimSpace(ap.ClientPhone); p != "" {
		return p
	}
	if ap.Client != nil {
		if p := strings.TrimSpace(ap.Client.Phone); p != "" {
			return p
		}
	}
	return DefaultClientPhone
}

func ServiceName(ap *models.Appointment) string {
	if ap.Service == nil {
		return ""
	}
	return strings.TrimSpace(ap.Service.Name)
}

// FormatTime truncates HH:MM:SS to HH:MM. Shorter values are returned as is.
func FormatTime(hm string) string {
	hm = strings.TrimSpace(hm)
	if len(hm) > 5 {
		return hm[:5]
	}
	return hm
}

// ContactLink builds the WhatsApp deep link used to confirm a turno. It
// returns false when there is no usable phone.
func ContactLink(phone, message string) (string, bool) {
	phone = strings.TrimSpace(phone)
	if phone == "" || phone == DefaultClientPhone {
		return "", false
	}

	digits := strings.Join(strings.Fields(phone), "")
	if message == "" {
		message = DefaultContactMessage
	}

	text := uriComponent.Replace(url.QueryEscape(message))
	return "https://wa.me/" + digits + "?text=" + text, true
}

// uriComponent turns query escaping into URI component escaping, which
// keeps spaces as %20 and leaves !*'() alone.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%2A", "*",
	"%27", "'",
	"%28", "(",
	"%29", ")",
)
