package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

func newActivitySvc(users *stubUserRepo, repo *stubActivityRepo, n *recordingNotifier) ports.ActivityService {
	return NewActivityService(NewIdentityResolver(users, nil, zerolog.Nop()), repo, n, zerolog.Nop())
}

func TestActivityService_Log_SharedActorAlertsCorrespondent(t *testing.T) {
	repo := &stubActivityRepo{}
	n := &recordingNotifier{}
	svc := newActivitySvc(newStubUserRepo(corrUser, sharedU1), repo, n)

	a, err := svc.Log(context.Background(), ports.LogActivityInput{ActorID: "U1", Type: "date_request", Details: "Friday"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" || a.UserID != "U1" || a.Type != "date_request" {
		t.Errorf("unexpected activity: %+v", a)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected activity persisted")
	}

	kinds := n.kinds()
	if got := kinds[domain.TemplateActivityCompleted]; len(got) != 1 || got[0] != sharedU1.Email {
		t.Errorf("expected activity-completed to actor, got %v", got)
	}
	if got := kinds[domain.TemplateCounterpartyActivityAlert]; len(got) != 1 || got[0] != corrUser.Email {
		t.Errorf("expected activity alert to correspondent, got %v", got)
	}
}

func TestActivityService_Log_NoAlertForCorrespondentOrLogin(t *testing.T) {
	cases := []struct {
		actor string
		typ   string
	}{
		{actor: "S1", typ: "feature_request"},
		{actor: "U1", typ: domain.ActivityLogin},
	}
	for _, tc := range cases {
		n := &recordingNotifier{}
		svc := newActivitySvc(newStubUserRepo(corrUser, sharedU1), &stubActivityRepo{}, n)

		if _, err := svc.Log(context.Background(), ports.LogActivityInput{ActorID: tc.actor, Type: tc.typ}); err != nil {
			t.Fatalf("%s/%s: unexpected error: %v", tc.actor, tc.typ, err)
		}
		if got := n.kinds()[domain.TemplateCounterpartyActivityAlert]; len(got) != 0 {
			t.Errorf("%s/%s: expected no correspondent alert, got %v", tc.actor, tc.typ, got)
		}
	}
}

func TestActivityService_Log_TypeRequired(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := newActivitySvc(newStubUserRepo(sharedU1), repo, &recordingNotifier{})

	if _, err := svc.Log(context.Background(), ports.LogActivityInput{ActorID: "U1", Type: "  "}); !errors.Is(err, domain.ErrActivityTypeRequired) {
		t.Fatalf("expected ErrActivityTypeRequired, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("expected nothing persisted")
	}
}

func TestActivityService_Log_PersistenceFailure(t *testing.T) {
	repo := &stubActivityRepo{insertErr: errors.New("disk full")}
	n := &recordingNotifier{}
	svc := newActivitySvc(newStubUserRepo(sharedU1), repo, n)

	if _, err := svc.Log(context.Background(), ports.LogActivityInput{ActorID: "U1", Type: "x"}); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if len(n.calls) != 0 {
		t.Error("expected no notifications after a failed write")
	}
}

func TestActivityService_Log_UnknownActor(t *testing.T) {
	svc := newActivitySvc(newStubUserRepo(), &stubActivityRepo{}, &recordingNotifier{})

	if _, err := svc.Log(context.Background(), ports.LogActivityInput{ActorID: "ghost", Type: "x"}); !errors.Is(err, domain.ErrUnauthenticatedSender) {
		t.Fatalf("expected ErrUnauthenticatedSender, got %v", err)
	}
}
