// ABOUTME: Maps backend failures to the fixed user-facing messages
// ABOUTME: One message per outcome, no retries; a 401 also forces a logout

package banner

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/debuglog"
)

// Fixed user-facing messages, matching the service's language.
const (
	MsgNetworkError    = "Error de conexión. Verifica tu conexión a internet."
	MsgSessionExpired  = "Tu sesión ha expirado. Por favor, inicia sesión nuevamente."
	MsgConnectionError = "No se pudo conectar con el servidor. Inténtalo más tarde."
	MsgMaxUsage        = "Has alcanzado el límite máximo de uso para tu clave."
	MsgChatNotFound    = "Sesión de chat no encontrada. Inicia una nueva conversación."
	MsgEmptyMessage    = "El mensaje no puede estar vacío."
	MsgUnavailable     = "El servicio de chat no está disponible en este momento."
	MsgUnknown         = "Ha ocurrido un error inesperado. Inténtalo de nuevo."
	MsgMessageTooLong  = "El mensaje es demasiado largo. Máximo 1000 caracteres."
	MsgInvalidKey      = "Clave API inválida. Verifica tu clave e inténtalo de nuevo."
)

// Describe maps a failed request to its fixed user-facing message. Mapping a
// 401 additionally invokes the presenter's unauthorized handler, which is
// wired to the session logout.
func (p *Presenter) Describe(err error, context string) string {
	debuglog.Error(context, err)

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest:
			if apiErr.Detail != "" {
				return apiErr.Detail
			}
			return MsgEmptyMessage
		case http.StatusUnauthorized:
			if p.onUnauthorized != nil {
				p.onUnauthorized()
			}
			return MsgSessionExpired
		case http.StatusForbidden:
			return MsgMaxUsage
		case http.StatusNotFound:
			return MsgChatNotFound
		case http.StatusServiceUnavailable:
			return MsgUnavailable
		default:
			if apiErr.Detail != "" {
				return apiErr.Detail
			}
			return MsgConnectionError
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return MsgNetworkError
	}

	return MsgUnknown
}
