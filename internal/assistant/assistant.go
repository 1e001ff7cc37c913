// Package assistant answers visitor questions about the exhibition on
// display. The language model sits behind Completer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gallery-kiosk/internal/domain/gallery"
)

var ErrDisabled = errors.New("chat assistant is not configured")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Completer interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// ActiveSource returns the hydrated active exhibition, nil when none.
type ActiveSource interface {
	FetchActiveExhibition(ctx context.Context) (*gallery.HydratedExhibition, error)
}

type Assistant struct {
	completer Completer
	active    ActiveSource
}

// New returns an Assistant. completer may be nil, in which case Reply
// returns ErrDisabled for anything but the health ping.
func New(completer Completer, active ActiveSource) *Assistant {
	return &Assistant{completer: completer, active: active}
}

func (a *Assistant) Reply(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}
	last := messages[len(messages)-1]
	if last.Role == RoleUser && strings.EqualFold(strings.TrimSpace(last.Content), "ping") {
		return "pong", nil
	}
	if a.completer == nil {
		return "", ErrDisabled
	}

	active, err := a.active.FetchActiveExhibition(ctx)
	if err != nil {
		return "", fmt.Errorf("load exhibition context: %w", err)
	}
	return a.completer.Complete(ctx, SystemPrompt(active), messages)
}

// SystemPrompt describes the gallery and, when there is one, the active
// exhibition and its works. Answers default to French.
func SystemPrompt(active *gallery.HydratedExhibition) string {
	var b strings.Builder
	b.WriteString("Tu es le guide virtuel d'une galerie d'art. Réponds en français par défaut, ")
	b.WriteString("ou dans la langue du visiteur s'il écrit dans une autre langue. ")
	b.WriteString("Sois bref, chaleureux et précis. N'invente pas d'œuvres.\n")

	if active == nil {
		b.WriteString("\nAucune exposition n'est actuellement présentée.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nExposition en cours : %s\n", active.Title)
	if active.Description != "" {
		fmt.Fprintf(&b, "Description : %s\n", active.Description)
	}
	if active.StartDate != "" || active.EndDate != "" {
		fmt.Fprintf(&b, "Dates : %s - %s\n", active.StartDate, active.EndDate)
	}
	for _, artist := range active.EffectiveArtists() {
		if artist.Bio != "" {
			fmt.Fprintf(&b, "Artiste %s : %s\n", artist.Name, artist.Bio)
		}
	}
	if len(active.Artworks) > 0 {
		b.WriteString("\nŒuvres exposées :\n")
		for _, w := range active.Artworks {
			fmt.Fprintf(&b, "- %s par %s", w.Title, w.Artist)
			if w.Year != "" {
				fmt.Fprintf(&b, " (%s)", w.Year)
			}
			if w.Medium != "" {
				fmt.Fprintf(&b, ", %s", w.Medium)
			}
			if w.Description != nil && *w.Description != "" {
				fmt.Fprintf(&b, " : %s", *w.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
