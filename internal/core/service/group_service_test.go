package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

func seedGroupAccount(t *testing.T, repo *stubAccountRepo, email string, role domain.Role) *domain.Account {
	t.Helper()
	account, err := repo.Create(context.Background(), &domain.Account{
		Username: email,
		Email:    email,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed account failed: %v", err)
	}
	return account
}

func TestGroupService_AddPeer_Symmetric(t *testing.T) {
	repo := newStubAccountRepo()
	rec := &recorderStub{}
	svc := NewGroupService(repo, rec, testLogger())

	a := seedGroupAccount(t, repo, "a@example.com", domain.RoleAdmin)
	b := seedGroupAccount(t, repo, "b@example.com", domain.RoleAdmin)

	if err := svc.AddPeer(context.Background(), identityOf(a), b.ID); err != nil {
		t.Fatalf("AddPeer returned error: %v", err)
	}

	// Both sides must carry the link.
	first, _ := repo.FindByID(context.Background(), a.ID)
	second, _ := repo.FindByID(context.Background(), b.ID)
	if !first.IsPeerOf(b.ID) || !second.IsPeerOf(a.ID) {
		t.Fatalf("expected symmetric link, got %v / %v", first.GroupedWith, second.GroupedWith)
	}

	// Re-adding is a no-op under set semantics.
	if err := svc.AddPeer(context.Background(), identityOf(a), b.ID); err != nil {
		t.Fatalf("re-add returned error: %v", err)
	}
	first, _ = repo.FindByID(context.Background(), a.ID)
	if len(first.GroupedWith) != 1 {
		t.Fatalf("expected one link, got %v", first.GroupedWith)
	}

	actions := rec.actions()
	if len(actions) != 2 || actions[0] != domain.AuditGroupAdd {
		t.Fatalf("unexpected audit trail: %v", actions)
	}
}

func TestGroupService_AddPeer_UnknownPeer(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewGroupService(repo, &recorderStub{}, testLogger())
	a := seedGroupAccount(t, repo, "a@example.com", domain.RoleAdmin)

	err := svc.AddPeer(context.Background(), identityOf(a), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestGroupService_RemovePeer_BothSides(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewGroupService(repo, &recorderStub{}, testLogger())

	a := seedGroupAccount(t, repo, "a@example.com", domain.RoleUnitManager)
	b := seedGroupAccount(t, repo, "b@example.com", domain.RoleUnitManager)
	if err := svc.AddPeer(context.Background(), identityOf(a), b.ID); err != nil {
		t.Fatalf("AddPeer returned error: %v", err)
	}

	if err := svc.RemovePeer(context.Background(), identityOf(a), b.ID); err != nil {
		t.Fatalf("RemovePeer returned error: %v", err)
	}

	first, _ := repo.FindByID(context.Background(), a.ID)
	second, _ := repo.FindByID(context.Background(), b.ID)
	if first.IsPeerOf(b.ID) || second.IsPeerOf(a.ID) {
		t.Fatalf("expected both links gone, got %v / %v", first.GroupedWith, second.GroupedWith)
	}
}

func TestGroupService_ListPeers(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewGroupService(repo, &recorderStub{}, testLogger())

	a := seedGroupAccount(t, repo, "a@example.com", domain.RoleAdmin)
	b := seedGroupAccount(t, repo, "b@example.com", domain.RoleAdmin)

	peers, err := svc.ListPeers(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListPeers returned error: %v", err)
	}
	if len(peers) != 0 {
		t.Fatalf("expected empty peer list, got %d", len(peers))
	}

	if err := svc.AddPeer(context.Background(), identityOf(a), b.ID); err != nil {
		t.Fatalf("AddPeer returned error: %v", err)
	}
	peers, err = svc.ListPeers(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListPeers returned error: %v", err)
	}
	if len(peers) != 1 || peers[0].ID != b.ID {
		t.Fatalf("unexpected peers: %+v", peers)
	}
}

func TestGroupService_ListCandidates(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewGroupService(repo, &recorderStub{}, testLogger())

	actor := seedGroupAccount(t, repo, "actor@example.com", domain.RoleAdmin)
	linked := seedGroupAccount(t, repo, "linked@example.com", domain.RoleAdmin)
	free := seedGroupAccount(t, repo, "free@example.com", domain.RoleAdmin)
	seedGroupAccount(t, repo, "other-tier@example.com", domain.RoleUnitManager)
	blocked := seedGroupAccount(t, repo, "blocked@example.com", domain.RoleAdmin)
	if err := repo.SetBlocked(context.Background(), blocked.ID, true); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	if err := svc.AddPeer(context.Background(), identityOf(actor), linked.ID); err != nil {
		t.Fatalf("AddPeer returned error: %v", err)
	}

	candidates, err := svc.ListCandidates(context.Background(), actor.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("ListCandidates returned error: %v", err)
	}
	// Only the unlinked, unblocked, same-tier account remains.
	if len(candidates) != 1 || candidates[0].ID != free.ID {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}
