package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	repo "github.com/oksasatya/recipes-auth/internal/domain/repository"
	"github.com/oksasatya/recipes-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/recipes-auth/pkg/mailer/templates"
	"github.com/oksasatya/recipes-auth/pkg/session"
	"github.com/oksasatya/recipes-auth/pkg/validation"
)

// JobPublisher puts a JSON job on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserIndexer mirrors users into the search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
}

// RequestMeta is the client information recorded in the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// LoginForm is the body of POST /login.
type LoginForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

// SignupForm is the body of POST /validate-magic-link.
type SignupForm struct {
	FirstName string `form:"firstName" validate:"required,personname"`
	LastName  string `form:"lastName" validate:"required,personname"`
}

// LinkRequested is the result of RequestLink.
type LinkRequested struct {
	Outcome
	Email string
	// Link is only filled in when links are exposed for local development.
	Link string
}

// LinkChecked is the result of ValidateLink. When NeedsSignup is set the session is
// left untouched and Outcome is empty.
type LinkChecked struct {
	Outcome
	NeedsSignup bool
	Email       string
}

// AuthService runs the magic-link login flow.
type AuthService struct {
	Users       repo.UserRepository
	Audit       repo.AuditRepository
	Sessions    *session.Store
	Links       *MagicLinks
	Mail        JobPublisher
	Index       UserIndexer
	Logger      *logrus.Logger
	AppName     string
	ExposeLinks bool
}

func NewAuthService(users repo.UserRepository, audit repo.AuditRepository, sessions *session.Store, links *MagicLinks, mail JobPublisher, index UserIndexer, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		Users:    users,
		Audit:    audit,
		Sessions: sessions,
		Links:    links,
		Mail:     mail,
		Index:    index,
		Logger:   logger,
		AppName:  "Recipes",
	}
}

// RequestLink issues a magic link for the submitted email, binds it to the session and
// queues the email. It answers the same way whether or not the email belongs to a user.
func (s *AuthService) RequestLink(ctx context.Context, sess *session.Session, form LoginForm, meta RequestMeta) (LinkRequested, error) {
	form.Email = strings.TrimSpace(form.Email)
	if fields := validation.Struct(form); fields != nil {
		return LinkRequested{}, &apperror.ValidationError{Fields: fields}
	}

	link, err := s.Links.Issue(form.Email)
	if err != nil {
		return LinkRequested{}, err
	}
	sess.Set(session.KeyNonce, link.Nonce)
	out, err := commit(s.Sessions, sess, "")
	if err != nil {
		return LinkRequested{}, err
	}

	if err := s.sendLink(ctx, form.Email, link.URL, meta); err != nil {
		s.Logger.WithError(err).WithField("email", form.Email).Error("enqueue magic link email failed")
		return LinkRequested{}, err
	}

	s.audit(ctx, entity.AuditEvent{Email: form.Email, Action: entity.AuditMagicLinkIssued}, meta)
	linksIssued.Add(1)

	res := LinkRequested{Outcome: out, Email: form.Email}
	if s.ExposeLinks {
		res.Link = link.URL
		s.Logger.WithFields(logrus.Fields{"email": form.Email, "link": link.URL}).Info("magic link issued")
	} else {
		s.Logger.WithField("email", form.Email).Info("magic link issued")
	}
	return res, nil
}

func (s *AuthService) sendLink(ctx context.Context, email, link string, meta RequestMeta) error {
	if s.Mail == nil {
		if !s.ExposeLinks {
			s.Logger.WithField("email", email).Warn("email queue not configured; magic link not delivered")
		}
		return nil
	}
	job := mailer.EmailJob{
		To:       email,
		Template: mailtpl.MagicLink,
		Data: mailtpl.NewMagicLinkData(s.AppName, email, link,
			mailtpl.WithExpiresIn(s.Links.MaxAge()),
			mailtpl.WithIP(meta.IP),
			mailtpl.WithUserAgent(meta.UserAgent),
		),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

// ValidateLink consumes a magic link. A known email logs the session in and clears
// the nonce; an unknown email asks for the signup form and keeps the nonce so the
// same link can be submitted with it.
func (s *AuthService) ValidateLink(ctx context.Context, sess *session.Session, u *url.URL, meta RequestMeta) (LinkChecked, error) {
	payload, err := s.verify(ctx, sess, u, meta)
	if err != nil {
		return LinkChecked{}, err
	}

	user, err := s.Users.FindByEmail(ctx, payload.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return LinkChecked{NeedsSignup: true, Email: payload.Email}, nil
	}
	if err != nil {
		return LinkChecked{}, err
	}

	out, err := s.login(ctx, sess, user, entity.AuditLogin, meta)
	if err != nil {
		return LinkChecked{}, err
	}
	return LinkChecked{Outcome: out, Email: user.Email}, nil
}

// CompleteSignup re-verifies the link, creates the user and logs the session in. The
// link is checked before the form so a stale link never reveals form errors.
func (s *AuthService) CompleteSignup(ctx context.Context, sess *session.Session, u *url.URL, form SignupForm, meta RequestMeta) (Outcome, error) {
	payload, err := s.verify(ctx, sess, u, meta)
	if err != nil {
		return Outcome{}, err
	}

	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	if fields := validation.Struct(form); fields != nil {
		return Outcome{}, &apperror.ValidationError{Fields: fields}
	}

	user, err := s.Users.Create(ctx, payload.Email, form.FirstName, form.LastName)
	if errors.Is(err, repo.ErrDuplicateEmail) {
		// Someone completed signup for this email in the meantime.
		user, err = s.Users.FindByEmail(ctx, payload.Email)
		if err != nil {
			return Outcome{}, err
		}
		return s.login(ctx, sess, user, entity.AuditLogin, meta)
	}
	if err != nil {
		return Outcome{}, err
	}

	if s.Index != nil {
		if ierr := s.Index.Index(ctx, user); ierr != nil {
			s.Logger.WithError(ierr).WithField("user_id", user.ID).Warn("index user failed")
		}
	}
	s.Logger.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("signup completed")
	return s.login(ctx, sess, user, entity.AuditSignup, meta)
}

// FakeLogin logs in an existing user without a link. Only mounted in development.
func (s *AuthService) FakeLogin(ctx context.Context, sess *session.Session, email string, meta RequestMeta) (Outcome, error) {
	email = strings.TrimSpace(email)
	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return Outcome{}, &apperror.NotFoundError{Resource: "user", ID: email}
	}
	if err != nil {
		return Outcome{}, err
	}
	return s.login(ctx, sess, user, entity.AuditLogin, meta)
}

// Logout drops the session cookie.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session, meta RequestMeta) Outcome {
	if id := sess.UserID(); id != "" {
		s.audit(ctx, entity.AuditEvent{UserID: id, Action: entity.AuditLogout}, meta)
	}
	return Outcome{Cookie: s.Sessions.Destroy()}
}

func (s *AuthService) verify(ctx context.Context, sess *session.Session, u *url.URL, meta RequestMeta) (entity.MagicLinkPayload, error) {
	payload, err := s.Links.Verify(u, sess)
	var inv *apperror.InvalidLinkError
	if errors.As(err, &inv) {
		s.Logger.WithField("reason", inv.Reason).Warn("magic link rejected")
		linksRejected.Add(inv.Reason, 1)
		s.audit(ctx, entity.AuditEvent{
			Action:   entity.AuditMagicLinkInvalid,
			Metadata: map[string]any{"reason": inv.Reason},
		}, meta)
	}
	return payload, err
}

func (s *AuthService) login(ctx context.Context, sess *session.Session, user *entity.User, action string, meta RequestMeta) (Outcome, error) {
	sess.Set(session.KeyUserID, user.ID)
	sess.Unset(session.KeyNonce)
	out, err := commit(s.Sessions, sess, HomePath)
	if err != nil {
		return Outcome{}, err
	}
	s.audit(ctx, entity.AuditEvent{UserID: user.ID, Email: user.Email, Action: action}, meta)
	logins.Add(action, 1)
	return out, nil
}

func (s *AuthService) audit(ctx context.Context, ev entity.AuditEvent, meta RequestMeta) {
	if s.Audit == nil {
		return
	}
	ev.IP = meta.IP
	ev.UserAgent = meta.UserAgent
	if err := s.Audit.Record(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("action", ev.Action).Warn("audit record failed")
	}
}
