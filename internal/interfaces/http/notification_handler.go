package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/farmabem/farmastock-api/internal/application/notification"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/pkg/logger"
)

// NotificationHandler expone el feed de avisos por WebSocket. Cada conexión
// es una sesión: arma su propio Feed, se suscribe al stream y se da de baja
// al desconectar.
type NotificationHandler struct {
	stream notification.EventStream
	log    *logger.Logger
}

// NewNotificationHandler construye el handler del feed.
func NewNotificationHandler(stream notification.EventStream, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{stream: stream, log: log}
}

// Upgrade deja pasar solo peticiones de upgrade a WebSocket.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream godoc
// @Summary      Feed de notificaciones en vivo
// @Description  WebSocket; empuja un JSON por cada entrada, salida o alta de medicamento
// @Tags         notifications
// @Security     BearerAuth
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		feed := notification.NewFeed(h.stream)
		// Solo la goroutine del feed escribe en la conexión; acá solo se lee
		// para detectar la desconexión del cliente.
		unsubscribe, err := feed.Subscribe(func(note entity.Notification) {
			if werr := conn.WriteJSON(note); werr != nil {
				h.log.Debug().Err(werr).Msg("no se pudo empujar el aviso, cliente desconectado")
			}
		})
		if err != nil {
			_ = conn.Close()
			return
		}
		defer unsubscribe()

		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	})
}
