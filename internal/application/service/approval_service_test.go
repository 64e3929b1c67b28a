package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/internal/domain/workflow"
)

// Mock ports

type mockApprovalRepo struct {
	mu sync.Mutex

	createFunc       func(ctx context.Context, req *entity.ApprovalRequest) error
	getByCodeFunc    func(ctx context.Context, code string) (*entity.ApprovalRequest, error)
	searchFunc       func(ctx context.Context, filter port.ApprovalFilter, skip, limit int) ([]*entity.ApprovalRequest, int, error)
	updateStateFunc  func(ctx context.Context, req *entity.ApprovalRequest, expectedVersion int64) error
	replaceTestsFunc func(ctx context.Context, id, expectedVersion int64, tests []entity.ComplementaryTest) error
	setDeletedFunc   func(ctx context.Context, id int64) error

	createCalls      int
	updateStateCalls int
}

func (m *mockApprovalRepo) Create(ctx context.Context, req *entity.ApprovalRequest) error {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	req.ID = 1
	return nil
}

func (m *mockApprovalRepo) GetByID(ctx context.Context, id int64) (*entity.ApprovalRequest, error) {
	return nil, port.ErrApprovalRequestNotFound
}

func (m *mockApprovalRepo) GetByCode(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
	if m.getByCodeFunc != nil {
		return m.getByCodeFunc(ctx, code)
	}
	return nil, port.ErrApprovalRequestNotFound
}

func (m *mockApprovalRepo) Search(ctx context.Context, filter port.ApprovalFilter, skip, limit int) ([]*entity.ApprovalRequest, int, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, skip, limit)
	}
	return nil, 0, nil
}

func (m *mockApprovalRepo) UpdateState(ctx context.Context, req *entity.ApprovalRequest, expectedVersion int64) error {
	m.mu.Lock()
	m.updateStateCalls++
	m.mu.Unlock()
	if m.updateStateFunc != nil {
		return m.updateStateFunc(ctx, req, expectedVersion)
	}
	return nil
}

func (m *mockApprovalRepo) ReplaceTests(ctx context.Context, id, expectedVersion int64, tests []entity.ComplementaryTest) error {
	if m.replaceTestsFunc != nil {
		return m.replaceTestsFunc(ctx, id, expectedVersion, tests)
	}
	return nil
}

func (m *mockApprovalRepo) SetDeleted(ctx context.Context, id int64) error {
	if m.setDeletedFunc != nil {
		return m.setDeletedFunc(ctx, id)
	}
	return nil
}

type mockSequenceRepo struct {
	next int
}

func (m *mockSequenceRepo) Next(ctx context.Context, scope string, year int) (int, error) {
	m.next++
	return m.next, nil
}

type mockCaseCreator struct {
	mu         sync.Mutex
	createFunc func(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error)
	calls      int
}

func (m *mockCaseCreator) CreateCaseFromApproval(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &entity.CaseReference{CaseID: 42, CaseCode: "2025-00011"}, nil
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []port.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, n port.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return nil
}

type mockPathologistRepo struct {
	byID   map[int64]*entity.Pathologist
	nextID int64
}

func (m *mockPathologistRepo) Create(ctx context.Context, p *entity.Pathologist) error {
	m.nextID++
	p.ID = m.nextID
	m.byID[p.ID] = p
	return nil
}

func (m *mockPathologistRepo) GetByID(ctx context.Context, id int64) (*entity.Pathologist, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, port.ErrPathologistNotFound
}

func (m *mockPathologistRepo) ListActive(ctx context.Context) ([]*entity.Pathologist, error) {
	var active []*entity.Pathologist
	for _, p := range m.byID {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type approvalFixture struct {
	pathologists *mockPathologistRepo
	users        *mockUserRepo
	notifier     *mockNotifier
}

func newFixture() *approvalFixture {
	return &approvalFixture{
		pathologists: &mockPathologistRepo{byID: map[int64]*entity.Pathologist{}},
		users:        &mockUserRepo{users: map[string]*entity.User{}},
		notifier:     &mockNotifier{},
	}
}

func (f *approvalFixture) service(repo *mockApprovalRepo, creator *mockCaseCreator) ApprovalService {
	return NewApprovalService(repo, &mockSequenceRepo{}, f.pathologists, f.users, creator,
		f.notifier, &mockTxManager{}, time.Second, nopLogger{})
}

func newService(repo *mockApprovalRepo, creator *mockCaseCreator) ApprovalService {
	return newFixture().service(repo, creator)
}

func pendingRequest() *entity.ApprovalRequest {
	return &entity.ApprovalRequest{
		ID:               1,
		ApprovalCode:     "AC-2025-00001",
		OriginalCaseCode: "2025-00010",
		State:            entity.ApprovalStatePendingApproval,
		Reason:           "Additional marker requested",
		ComplementaryTests: []entity.ComplementaryTest{
			{Code: "IHQ01", Name: "ALK-1", Quantity: 2},
		},
		Version: 2,
	}
}

func TestCreateRequest(t *testing.T) {
	repo := &mockApprovalRepo{}
	svc := newService(repo, &mockCaseCreator{})

	req, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		OriginalCaseCode: "2025-00010",
		ComplementaryTests: []entity.ComplementaryTest{
			{Code: "IHQ01", Name: "ALK-1", Quantity: 2},
		},
		Reason:      "Additional marker requested",
		RequestedBy: "dr.lopez",
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	if req.State != entity.ApprovalStateRequestMade {
		t.Errorf("State = %s, want REQUEST_MADE", req.State)
	}
	if req.ApprovalCode == "" {
		t.Error("ApprovalCode was not assigned")
	}
	if len(req.ComplementaryTests) != 1 {
		t.Errorf("ComplementaryTests length = %d, want 1", len(req.ComplementaryTests))
	}
	if repo.createCalls != 1 {
		t.Errorf("Create called %d times, want 1", repo.createCalls)
	}
}

func TestCreateRequest_ValidationFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateRequestInput
		wantErr error
	}{
		{
			name: "missing original case",
			input: CreateRequestInput{
				ComplementaryTests: []entity.ComplementaryTest{{Code: "IHQ01", Name: "ALK-1", Quantity: 1}},
				Reason:             "justified",
			},
			wantErr: ErrOriginalCaseRequired,
		},
		{
			name: "missing reason",
			input: CreateRequestInput{
				OriginalCaseCode:   "2025-00010",
				ComplementaryTests: []entity.ComplementaryTest{{Code: "IHQ01", Name: "ALK-1", Quantity: 1}},
			},
			wantErr: workflow.ErrReasonRequired,
		},
		{
			name: "empty tests",
			input: CreateRequestInput{
				OriginalCaseCode: "2025-00010",
				Reason:           "justified",
			},
			wantErr: workflow.ErrNoComplementaryTests,
		},
		{
			name: "zero quantity",
			input: CreateRequestInput{
				OriginalCaseCode:   "2025-00010",
				ComplementaryTests: []entity.ComplementaryTest{{Code: "IHQ01", Name: "ALK-1", Quantity: 0}},
				Reason:             "justified",
			},
			wantErr: ErrInvalidTestQuantity,
		},
		{
			name: "nameless test",
			input: CreateRequestInput{
				OriginalCaseCode:   "2025-00010",
				ComplementaryTests: []entity.ComplementaryTest{{Code: "IHQ01", Quantity: 1}},
				Reason:             "justified",
			},
			wantErr: ErrInvalidTestEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockApprovalRepo{}
			svc := newService(repo, &mockCaseCreator{})

			_, err := svc.CreateRequest(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateRequest() error = %v, want %v", err, tt.wantErr)
			}
			if repo.createCalls != 0 {
				t.Errorf("Create called %d times before validation, want 0", repo.createCalls)
			}
		})
	}
}

func TestCreateRequest_NotifiesPathologistByEmail(t *testing.T) {
	f := newFixture()
	f.pathologists.byID[7] = &entity.Pathologist{
		ID:    7,
		Name:  "Dr. Maria Vega",
		Email: "maria.vega@pathsys.example.com",
	}
	svc := f.service(&mockApprovalRepo{}, &mockCaseCreator{})

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		OriginalCaseCode: "2025-00010",
		ComplementaryTests: []entity.ComplementaryTest{
			{Code: "IHQ01", Name: "ALK-1", Quantity: 2},
		},
		Reason:              "Additional marker requested",
		RequestedBy:         "dr.lopez",
		AssignedPathologist: &entity.PathologistRef{ID: 7, Name: "Dr. Maria Vega"},
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.sent))
	}
	n := f.notifier.sent[0]
	if n.Recipient != "maria.vega@pathsys.example.com" {
		t.Errorf("Recipient = %q, want the pathologist's email address", n.Recipient)
	}
	if n.RecipientName != "Dr. Maria Vega" {
		t.Errorf("RecipientName = %q, want the display name", n.RecipientName)
	}
}

func TestCreateRequest_UnresolvablePathologistSkipsNotification(t *testing.T) {
	f := newFixture()
	svc := f.service(&mockApprovalRepo{}, &mockCaseCreator{})

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		OriginalCaseCode: "2025-00010",
		ComplementaryTests: []entity.ComplementaryTest{
			{Code: "IHQ01", Name: "ALK-1", Quantity: 2},
		},
		Reason:              "Additional marker requested",
		AssignedPathologist: &entity.PathologistRef{ID: 99, Name: "Dr. Nobody"},
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatalf("expected no notification for unknown pathologist, got %d", len(f.notifier.sent))
	}
}

func TestManage(t *testing.T) {
	req := pendingRequest()
	req.State = entity.ApprovalStateRequestMade

	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	svc := newService(repo, &mockCaseCreator{})

	got, err := svc.Manage(context.Background(), req.ApprovalCode, "operator1", "claimed")
	if err != nil {
		t.Fatalf("Manage() error = %v", err)
	}
	if got.State != entity.ApprovalStatePendingApproval {
		t.Errorf("State = %s, want PENDING_APPROVAL", got.State)
	}
	if got.ManagedBy != "operator1" || got.ManagementComments != "claimed" || got.ManagedAt == nil {
		t.Error("management bookkeeping fields not recorded")
	}
}

func TestManage_Concurrent(t *testing.T) {
	// Two operators race to claim the same request; the store's
	// compare-and-swap admits exactly one.
	stored := pendingRequest()
	stored.State = entity.ApprovalStateRequestMade
	stored.Version = 1

	var mu sync.Mutex
	repo := &mockApprovalRepo{}
	repo.getByCodeFunc = func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
		mu.Lock()
		defer mu.Unlock()
		snapshot := *stored
		return &snapshot, nil
	}
	repo.updateStateFunc = func(ctx context.Context, req *entity.ApprovalRequest, expectedVersion int64) error {
		mu.Lock()
		defer mu.Unlock()
		if stored.Version != expectedVersion {
			return port.ErrVersionConflict
		}
		stored = req
		stored.Version = expectedVersion + 1
		return nil
	}

	svc := newService(repo, &mockCaseCreator{})

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Manage(context.Background(), stored.ApprovalCode, "operator", "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, port.ErrVersionConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("got %d successes and %d conflicts, want exactly 1 of each", successes, conflicts)
	}
}

func TestApprove(t *testing.T) {
	req := pendingRequest()
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	creator := &mockCaseCreator{}
	svc := newService(repo, creator)

	got, err := svc.Approve(context.Background(), req.ApprovalCode, "dr.smith", "go ahead")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if got.State != entity.ApprovalStateApproved {
		t.Errorf("State = %s, want APPROVED", got.State)
	}
	if got.LinkedCaseCode != "2025-00011" || got.LinkedCaseID != 42 {
		t.Errorf("linked case = %s/%d, want 2025-00011/42", got.LinkedCaseCode, got.LinkedCaseID)
	}
	if got.ApprovedBy != "dr.smith" || got.ApprovedAt == nil {
		t.Error("approval bookkeeping fields not recorded")
	}
	if creator.calls != 1 {
		t.Errorf("CreateCaseFromApproval called %d times, want 1", creator.calls)
	}
}

func TestApprove_CollaboratorFailureLeavesStateUnchanged(t *testing.T) {
	req := pendingRequest()
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	creator := &mockCaseCreator{
		createFunc: func(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error) {
			return nil, errors.New("backend unavailable")
		},
	}
	svc := newService(repo, creator)

	_, err := svc.Approve(context.Background(), req.ApprovalCode, "dr.smith", "")
	if err == nil {
		t.Fatal("Approve() succeeded despite collaborator failure")
	}
	if repo.updateStateCalls != 0 {
		t.Errorf("UpdateState called %d times, want 0 (nothing committed)", repo.updateStateCalls)
	}
	if req.State != entity.ApprovalStatePendingApproval {
		t.Errorf("State = %s, want PENDING_APPROVAL unchanged", req.State)
	}
}

func TestApprove_TimeoutIsIndeterminate(t *testing.T) {
	req := pendingRequest()
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	creator := &mockCaseCreator{
		createFunc: func(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	f := newFixture()
	svc := NewApprovalService(repo, &mockSequenceRepo{}, f.pathologists, f.users, creator,
		f.notifier, &mockTxManager{}, 10*time.Millisecond, nopLogger{})

	_, err := svc.Approve(context.Background(), req.ApprovalCode, "dr.smith", "")
	if !errors.Is(err, ErrCaseCreationUnknown) {
		t.Fatalf("Approve() error = %v, want ErrCaseCreationUnknown", err)
	}
	if repo.updateStateCalls != 0 {
		t.Errorf("UpdateState called %d times after timeout, want 0", repo.updateStateCalls)
	}
}

func TestApprove_MustPassThroughManage(t *testing.T) {
	req := pendingRequest()
	req.State = entity.ApprovalStateRequestMade
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	creator := &mockCaseCreator{}
	svc := newService(repo, creator)

	_, err := svc.Approve(context.Background(), req.ApprovalCode, "dr.smith", "")

	var invalidErr *workflow.InvalidTransitionError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Approve() error = %v, want InvalidTransitionError", err)
	}
	if invalidErr.Attempted != workflow.TriggerApprove || invalidErr.Current != workflow.StateRequestMade {
		t.Errorf("InvalidTransitionError = {%s %s}, want {APPROVE REQUEST_MADE}",
			invalidErr.Attempted, invalidErr.Current)
	}
	if creator.calls != 0 {
		t.Errorf("collaborator called %d times for an illegal transition, want 0", creator.calls)
	}
}

func TestApprove_TwiceCreatesNoSecondCase(t *testing.T) {
	req := pendingRequest()
	req.State = entity.ApprovalStateApproved
	req.LinkedCaseCode = "2025-00011"
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	creator := &mockCaseCreator{}
	svc := newService(repo, creator)

	_, err := svc.Approve(context.Background(), req.ApprovalCode, "dr.smith", "")
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("Approve() error = %v, want ErrInvalidTransition", err)
	}
	if creator.calls != 0 {
		t.Errorf("collaborator called %d times on an approved record, want 0", creator.calls)
	}
}

func TestApprove_ReconcilesAlreadyCreatedCase(t *testing.T) {
	req := pendingRequest()
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	creator := &mockCaseCreator{
		createFunc: func(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error) {
			return &entity.CaseReference{CaseID: 7, CaseCode: "2025-00012"}, port.ErrCaseAlreadyCreated
		},
	}
	svc := newService(repo, creator)

	got, err := svc.Approve(context.Background(), req.ApprovalCode, "dr.smith", "")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if got.LinkedCaseCode != "2025-00012" {
		t.Errorf("LinkedCaseCode = %s, want reconciled 2025-00012", got.LinkedCaseCode)
	}
}

func TestReject(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		req := pendingRequest()
		repo := &mockApprovalRepo{
			getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
				return req, nil
			},
		}
		svc := newService(repo, &mockCaseCreator{})

		got, err := svc.Reject(context.Background(), req.ApprovalCode, "dr.smith", "Insufficient justification")
		if err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		if got.State != entity.ApprovalStateRejected {
			t.Errorf("State = %s, want REJECTED", got.State)
		}
		if got.RejectionComments != "Insufficient justification" {
			t.Errorf("RejectionComments = %q", got.RejectionComments)
		}
	})

	t.Run("early withdrawal from request made", func(t *testing.T) {
		req := pendingRequest()
		req.State = entity.ApprovalStateRequestMade
		repo := &mockApprovalRepo{
			getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
				return req, nil
			},
		}
		svc := newService(repo, &mockCaseCreator{})

		got, err := svc.Reject(context.Background(), req.ApprovalCode, "dr.smith", "withdrawn")
		if err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		if got.State != entity.ApprovalStateRejected {
			t.Errorf("State = %s, want REJECTED", got.State)
		}
	})
}

func TestReject_NotifiesRequesterByEmail(t *testing.T) {
	req := pendingRequest()
	req.RequestedBy = "dr.lopez"
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}

	f := newFixture()
	f.users.users["dr.lopez"] = &entity.User{
		Username: "dr.lopez",
		FullName: "Dr. Ana Lopez",
		Email:    "ana.lopez@pathsys.example.com",
	}
	svc := f.service(repo, &mockCaseCreator{})

	if _, err := svc.Reject(context.Background(), req.ApprovalCode, "dr.smith", "Insufficient justification"); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.sent))
	}
	n := f.notifier.sent[0]
	if n.Recipient != "ana.lopez@pathsys.example.com" {
		t.Errorf("Recipient = %q, want the requester's email address", n.Recipient)
	}
	if n.RecipientName != "Dr. Ana Lopez" {
		t.Errorf("RecipientName = %q, want the requester's full name", n.RecipientName)
	}
}

func TestUpdateTests_ReplacesEntirely(t *testing.T) {
	req := pendingRequest()
	var replaced []entity.ComplementaryTest
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
		replaceTestsFunc: func(ctx context.Context, id, expectedVersion int64, tests []entity.ComplementaryTest) error {
			replaced = tests
			return nil
		},
	}
	svc := newService(repo, &mockCaseCreator{})

	newTests := []entity.ComplementaryTest{
		{Code: "IHQ02", Name: "CD30", Quantity: 1},
		{Code: "IHQ03", Name: "EMA", Quantity: 3},
	}
	got, err := svc.UpdateTests(context.Background(), req.ApprovalCode, newTests)
	if err != nil {
		t.Fatalf("UpdateTests() error = %v", err)
	}

	if len(replaced) != 2 || replaced[0].Code != "IHQ02" || replaced[1].Code != "IHQ03" {
		t.Errorf("persisted tests = %v, want full replacement", replaced)
	}
	if len(got.ComplementaryTests) != 2 {
		t.Errorf("returned tests length = %d, want 2 (no merge)", len(got.ComplementaryTests))
	}
}

func TestUpdateTests_RejectedAfterDecision(t *testing.T) {
	req := pendingRequest()
	req.State = entity.ApprovalStateApproved
	repo := &mockApprovalRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*entity.ApprovalRequest, error) {
			return req, nil
		},
	}
	svc := newService(repo, &mockCaseCreator{})

	_, err := svc.UpdateTests(context.Background(), req.ApprovalCode,
		[]entity.ComplementaryTest{{Code: "IHQ02", Name: "CD30", Quantity: 1}})
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("UpdateTests() error = %v, want ErrInvalidTransition", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockApprovalRepo{}
	svc := newService(repo, &mockCaseCreator{})

	err := svc.Delete(context.Background(), "AC-2025-09999")
	if !errors.Is(err, port.ErrApprovalRequestNotFound) {
		t.Fatalf("Delete() error = %v, want ErrApprovalRequestNotFound", err)
	}
}
