package realtime

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"

	model "taskflow.com/taskflow/internal/models"
)

type clientMessage struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId"`
}

// Handler upgrades an authenticated request to a websocket and runs the read
// loop. The only inbound messages are join-project and leave-project; all
// traffic to the client flows through Hub.Broadcast.
func (h *Hub) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*model.User)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			h.logger.Warn().Err(err).Msg("websocket accept failed")
			return nil
		}

		client := &Client{
			conn:   conn,
			userID: user.ID,
			rooms:  make(map[string]struct{}),
		}
		h.register(client)
		h.logger.Debug().Str("user", user.ID).Msg("socket connected")

		defer func() {
			h.unregister(client)
			_ = conn.CloseNow()
			h.logger.Debug().Str("user", user.ID).Msg("socket disconnected")
		}()

		ctx := c.Request().Context()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return nil
			}

			var msg clientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}

			switch msg.Type {
			case "join-project":
				if msg.ProjectID == "" {
					continue
				}
				if err := h.Join(ctx, client, msg.ProjectID); err != nil {
					h.logger.Warn().Err(err).Str("project", msg.ProjectID).Msg("room join failed")
				}
			case "leave-project":
				h.Leave(client, msg.ProjectID)
			}
		}
	}
}
