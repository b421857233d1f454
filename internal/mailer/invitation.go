package mailer

import (
	"context"
	"time"
)

// Invitation is the data an invitation email is rendered from.
type Invitation struct {
	To         string
	ClientName string
	CoachName  string
	AcceptURL  string
	ExpiresAt  time.Time
}

// InvitationSender delivers invitation emails.
type InvitationSender interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

type invitationMailer struct {
	mailer   Mailer
	renderer *Renderer
}

// NewInvitationSender renders the invitation template and hands it to m.
func NewInvitationSender(m Mailer, r *Renderer) InvitationSender {
	return &invitationMailer{mailer: m, renderer: r}
}

func (im *invitationMailer) SendInvitation(ctx context.Context, inv Invitation) error {
	msg, err := im.renderer.Render("invitation", inv.To, struct {
		Invitation
		Expires string
	}{inv, inv.ExpiresAt.UTC().Format("January 2, 2006")})
	if err != nil {
		return err
	}
	return im.mailer.Send(ctx, msg)
}
