package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"guest-chat/domain"
	"guest-chat/errors"
	"guest-chat/joincode"
	"guest-chat/moderation"
	"guest-chat/repositories"
	"guest-chat/sessions"
)

// IMembershipService is the coordinator between guest identities and room
// membership. Every operation takes the caller's opaque session token as
// resolved by the transport layer; none of them issues tokens.
type IMembershipService interface {
	ChooseName(ctx context.Context, sessionToken, name string) (domain.Guest, error)
	// HasName reports whether the session already holds a bound guest,
	// without loading any room or message state.
	HasName(ctx context.Context, sessionToken string) (bool, error)
	CreateRoom(ctx context.Context, sessionToken, name string, isPrivate bool) (domain.Room, error)
	JoinRoom(ctx context.Context, sessionToken, code string) (domain.Room, error)
	GetCurrentRoom(ctx context.Context, sessionToken string) (*domain.RoomView, error)
	ListPublicRooms(ctx context.Context, sessionToken string) ([]domain.RoomSummary, error)
	PostMessage(ctx context.Context, sessionToken, text string) (domain.Message, error)
	EndSession(ctx context.Context, sessionToken string) error
}

type MembershipService struct {
	identities repositories.IIdentityRepository
	rooms      repositories.IRoomRepository
	codes      joincode.Allocator
	sessions   sessions.IManager
	moderator  *moderation.Moderator
	maxLength  int
	log        *slog.Logger
}

func NewMembershipService(
	identities repositories.IIdentityRepository,
	rooms repositories.IRoomRepository,
	codes joincode.Allocator,
	manager sessions.IManager,
	moderator *moderation.Moderator,
	maxContentLength int,
	log *slog.Logger,
) *MembershipService {
	return &MembershipService{
		identities: identities,
		rooms:      rooms,
		codes:      codes,
		sessions:   manager,
		moderator:  moderator,
		maxLength:  maxContentLength,
		log:        log,
	}
}

// ChooseName checks the session's binding and validates the candidate
// before any storage is mutated, then delegates the reservation to the
// identity store. Nothing is committed on failure.
func (s *MembershipService) ChooseName(_ context.Context, sessionToken, name string) (domain.Guest, error) {
	if !s.sessions.IsValid(sessionToken) {
		return domain.Guest{}, fmt.Errorf("%w: session token revoked", errors.ErrUnauthenticated)
	}
	// The existing binding wins over validation: a session that already
	// chose a name is rejected AlreadyBound whatever the new candidate
	// looks like. The reservation re-checks under its own transaction.
	_, bound, err := s.identities.Lookup(sessionToken)
	if err != nil {
		return domain.Guest{}, err
	}
	if bound {
		return domain.Guest{}, errors.ErrAlreadyBound
	}
	if err := domain.ValidateGuestName(name); err != nil {
		return domain.Guest{}, err
	}
	guest, err := s.identities.ReserveName(sessionToken, name)
	if err != nil {
		return domain.Guest{}, err
	}
	s.log.Info("New guest", "name", guest.Name)
	return guest, nil
}

func (s *MembershipService) HasName(ctx context.Context, sessionToken string) (bool, error) {
	_, err := s.guest(ctx, sessionToken)
	if stderrors.Is(err, errors.ErrUnauthenticated) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MembershipService) CreateRoom(ctx context.Context, sessionToken, name string, isPrivate bool) (domain.Room, error) {
	if _, err := s.guest(ctx, sessionToken); err != nil {
		return domain.Room{}, err
	}
	// The store inserts the room and registers the creator as its first
	// member in one step; the code is allocated inside that same step.
	return s.rooms.CreateWithCreator(name, isPrivate, s.codes, sessionToken)
}

func (s *MembershipService) JoinRoom(ctx context.Context, sessionToken, code string) (domain.Room, error) {
	if _, err := s.guest(ctx, sessionToken); err != nil {
		return domain.Room{}, err
	}
	room, found, err := s.rooms.FindByCode(code)
	if err != nil {
		return domain.Room{}, err
	}
	if !found {
		return domain.Room{}, fmt.Errorf("%w: code %q", errors.ErrRoomNotFound, code)
	}
	// A guest already in another room is transferred atomically; the
	// store commits the leave and the join as one step.
	return s.rooms.AddMember(room.ID, sessionToken)
}

func (s *MembershipService) GetCurrentRoom(ctx context.Context, sessionToken string) (*domain.RoomView, error) {
	guest, err := s.guest(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !guest.InRoom() {
		return nil, nil
	}
	room, found, err := s.rooms.Get(guest.CurrentRoomID)
	if err != nil {
		return nil, err
	}
	if !found {
		// Both links are maintained in one transaction, so a dangling
		// CurrentRoomID is a broken invariant, not a normal condition.
		return nil, fmt.Errorf("guest %s points at missing room %s", guest.ID, guest.CurrentRoomID)
	}
	messages, _, err := s.rooms.Messages(room.ID, nil)
	if err != nil {
		return nil, err
	}
	return &domain.RoomView{Room: room, Messages: messages}, nil
}

func (s *MembershipService) ListPublicRooms(ctx context.Context, sessionToken string) ([]domain.RoomSummary, error) {
	if _, err := s.guest(ctx, sessionToken); err != nil {
		return nil, err
	}
	return s.rooms.ListPublic()
}

func (s *MembershipService) PostMessage(ctx context.Context, sessionToken, text string) (domain.Message, error) {
	guest, err := s.guest(ctx, sessionToken)
	if err != nil {
		return domain.Message{}, err
	}
	if !guest.InRoom() {
		return domain.Message{}, errors.ErrNotInRoom
	}
	if strings.TrimSpace(text) == "" || len([]rune(text)) > s.maxLength {
		return domain.Message{}, errors.ErrInvalidMessage
	}
	if s.moderator != nil {
		text = s.moderator.Censor(text)
	}
	return s.rooms.AppendMessage(guest.CurrentRoomID, sessionToken, text)
}

// EndSession removes the guest from their room, releases the name binding
// and invalidates the token. The membership cleanup and the release commit
// together in the identity store.
func (s *MembershipService) EndSession(ctx context.Context, sessionToken string) error {
	guest, err := s.guest(ctx, sessionToken)
	if err != nil {
		return err
	}
	if err = s.identities.Release(sessionToken); err != nil {
		return err
	}
	s.sessions.Invalidate(sessionToken)
	s.log.Info("Session ended", "name", guest.Name)
	return nil
}

// guest resolves the caller. A revoked token is Unauthenticated even if
// a stale binding were still around; so is a live token with no binding.
func (s *MembershipService) guest(_ context.Context, sessionToken string) (domain.Guest, error) {
	if !s.sessions.IsValid(sessionToken) {
		return domain.Guest{}, fmt.Errorf("%w: session token revoked", errors.ErrUnauthenticated)
	}
	guest, found, err := s.identities.Lookup(sessionToken)
	if err != nil {
		return domain.Guest{}, err
	}
	if !found {
		return domain.Guest{}, errors.ErrUnauthenticated
	}
	return guest, nil
}
