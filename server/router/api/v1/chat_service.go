package v1

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"

	"github.com/tablevoice/tablevoice/plugin/genai"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request / Response types
// ─────────────────────────────────────────────────────────────────────────────

// ChatPart is one text segment of a conversation turn.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatTurn is one message in the resent conversation history, oldest first.
// Role is "user" or "model".
type ChatTurn struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Route registration
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) registerChatRoutes(e *echo.Echo) {
	e.POST("/api/chat", s.handleChat)
}

// ─────────────────────────────────────────────────────────────────────────────
// Chat handler
// ─────────────────────────────────────────────────────────────────────────────

// handleChat runs one full conversation turn: seed a model session with the
// resent history, send the user's message, execute at most one requested tool
// and return the model's final reply. The server keeps no session state; the
// client resends the whole history every turn.
func (s *APIV1Service) handleChat(c *echo.Context) error {
	if s.Profile.GeminiAPIKey == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "chat is not configured (missing GEMINI_API_KEY)")
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	ctx := c.Request().Context()
	chatID := uuid.New().String()[:8]

	session, err := s.GenAI.StartChat(filterHistory(req.History), buildSystemInstruction(time.Now()))
	if err != nil {
		if errors.Is(err, genai.ErrInvalidHistory) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}

	slog.Info("[CHAT]", "id", chatID, "message", req.Message, "history", len(req.History))

	reply, err := s.runToolRound(ctx, chatID, session, req.Message)
	if err != nil {
		slog.Error("[CHAT] failed", "id", chatID, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, chatResponse{Response: reply})
}

// runToolRound drives one bounded round of tool use: send the message, and if
// the reply embeds a tool request, execute it once and send the outcome back
// on the same session for the final reply. A model that wants a second tool
// has to wait for the next user turn; there is deliberately no iteration
// here.
//
// Model-call failures abort the round; tool failures do not, since they are
// already encoded into the result line and narrated back to the model.
func (s *APIV1Service) runToolRound(ctx context.Context, chatID string, session *genai.Session, message string) (string, error) {
	reply, err := session.Send(ctx, message)
	if err != nil {
		return "", err
	}

	call, ok := extractToolCall(reply)
	if !ok {
		return reply, nil
	}

	handler, ok := s.Tools[call.Tool]
	if !ok {
		return reply, nil
	}

	slog.Info("[CHAT TOOL CALL]", "id", chatID, "tool", call.Tool, "input", call.raw)
	result, err := handler.Call(ctx, call.raw)
	if err != nil {
		// Handlers encode business failures themselves; this is a last resort.
		result = "Error: " + err.Error()
	}
	slog.Info("[CHAT TOOL RESULT]", "id", chatID, "tool", call.Tool, "result", result)

	return session.Send(ctx, followUpMessage(call.Tool, result))
}

// followUpMessage embeds a tool result verbatim plus the fixed instruction
// telling the model what to do with it.
func followUpMessage(tool, result string) string {
	switch tool {
	case "get_weather":
		return fmt.Sprintf("Weather tool result: %s. Now suggest seating based on this.", result)
	case "cancel_booking":
		return fmt.Sprintf("Cancellation tool result: %s. Now confirm to user.", result)
	default:
		return fmt.Sprintf("Booking tool result: %s. Now confirm to user.", result)
	}
}

// filterHistory converts the wire history into model turns. The conversation
// primitive requires the first turn to be user-authored, so a leading model
// greeting is dropped; any role other than "user" forwards as "model".
func filterHistory(history []ChatTurn) []genai.Turn {
	turns := make([]genai.Turn, 0, len(history))
	for i, t := range history {
		if i == 0 && t.Role != genai.RoleUser {
			continue
		}
		role := genai.RoleModel
		if t.Role == genai.RoleUser {
			role = genai.RoleUser
		}
		parts := make([]genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, genai.Part{Text: p.Text})
		}
		turns = append(turns, genai.Turn{Role: role, Parts: parts})
	}
	return turns
}

// buildSystemInstruction is the fixed prompt governing the agent and its
// tool-call wire protocol: a tool request must be a single JSON block with a
// `tool` field, emitted as the entire response.
func buildSystemInstruction(now time.Time) string {
	return fmt.Sprintf(`You are a helpful Restaurant Booking Voice Agent.
Today's date is %s.

Your goal is to help users BOOK a table or CANCEL a booking.

IF BOOKING, collect:
1. Customer Name (Ask for this first!)
2. Number of guests
3. Preferred date and time
4. Cuisine preference (Italian, Chinese, Indian, etc.)
5. Special requests (optional)

IF CANCELLING:
1. Ask for the Customer Name.
2. Call 'cancel_booking' tool.

Steps for Booking:
1. Greet the user and ask for their name.
2. Ask for missing details one by one or a few at a time.
3. Once you have the DATE, call the 'get_weather' tool to check the weather.
4. Based on the weather, suggest Indoor or Outdoor seating.
5. Ask for any SPECIAL REQUESTS (e.g., allergies, anniversary, high chair). This is MANDATORY.
6. Ask for confirmation of all details.
7. Once confirmed, call the 'create_booking' tool with all details.
8. Confirm to the user that the booking is made.

To call a tool, output a SPECIAL JSON BLOCK as your entire response:

To check weather:
{ "tool": "get_weather", "date": "YYYY-MM-DD" }

To create a booking:
{ "tool": "create_booking", "data": { "customerName": "John Doe", "numberOfGuests": 2, "bookingDate": "YYYY-MM-DD", "bookingTime": "HH:MM", "cuisinePreference": "...", "specialRequests": "...", "seatingPreference": "...", "weatherInfo": {...} } }

To cancel a booking:
{ "tool": "cancel_booking", "customerName": "John Doe" }

IMPORTANT: If you have fetched weather data, include it in the 'weatherInfo' field of the booking data.

If no tool call is needed, just respond with text.

CRITICAL STYLE INSTRUCTION: You are a VOICE agent.
1. Do NOT use markdown formatting like asterisks (**), bullet points, or bold text.
2. Do NOT use lists.
3. Speak in full, natural sentences.
4. Instead of "* Number of guests: Two", say "You have two guests".
5. Keep responses concise and conversational.`,
		now.Format("Mon Jan 2 2006"),
	)
}
