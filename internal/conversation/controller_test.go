package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PaddyGuard/paddyguard/internal/plan"
)

type fakeBackend struct {
	mu          sync.Mutex
	refineCalls int
	askCalls    int
	execCalls   int

	refined   *plan.Plan
	refineErr error
	answer    string
	askErr    error
	execErr   error

	// when set, the matching call blocks until the channel is closed
	refineGate chan struct{}
	execGate   chan struct{}
	lastFarmer string
}

func (f *fakeBackend) RefinePlan(ctx context.Context, id plan.ConversationID, message string, current *plan.Plan) (*plan.Plan, error) {
	f.mu.Lock()
	f.refineCalls++
	gate := f.refineGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.refined, f.refineErr
}

func (f *fakeBackend) Ask(ctx context.Context, farmerID, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.askCalls++
	f.lastFarmer = farmerID
	return f.answer, f.askErr
}

func (f *fakeBackend) ExecutePlan(ctx context.Context, id plan.ConversationID) error {
	f.mu.Lock()
	f.execCalls++
	gate := f.execGate
	err := f.execErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeBackend) calls() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refineCalls, f.askCalls, f.execCalls
}

func notif(id string, actionable bool, msg string) *plan.Notification {
	return &plan.Notification{
		ConversationID: plan.ConversationID(id),
		Plan: &plan.Plan{
			TreatmentPlan: &plan.TreatmentPlan{IsActionable: actionable, MainMessage: msg},
		},
	}
}

func TestIngestSeedsThreads(t *testing.T) {
	c := New(&fakeBackend{}, "farmer-1")

	if !c.Ingest(1, notif("42", true, "Phun thuốc ngày mai")) {
		t.Fatal("first ingest should replace the session")
	}
	if c.State() != StateAwaitingInput {
		t.Fatalf("state = %v, want awaiting_input", c.State())
	}

	pt := c.PlanThread()
	if len(pt) != 3 {
		t.Fatalf("plan thread length = %d, want 3", len(pt))
	}
	if pt[0].Text != greetingLatestResult {
		t.Fatalf("first greeting = %q", pt[0].Text)
	}
	if pt[1].Text != "Phun thuốc ngày mai" {
		t.Fatalf("second message should carry the plan summary, got %q", pt[1].Text)
	}
	if pt[2].Text != greetingAskForEdits {
		t.Fatalf("third greeting = %q", pt[2].Text)
	}

	qa := c.QAThread()
	if len(qa) != 1 || qa[0].Text != greetingQA {
		t.Fatalf("qa thread = %+v, want single greeting", qa)
	}
}

func TestIngestMissingMainMessageFallsBack(t *testing.T) {
	c := New(&fakeBackend{}, "farmer-1")
	c.Ingest(1, notif("42", false, ""))

	pt := c.PlanThread()
	if pt[1].Text != plan.FallbackMainMessage {
		t.Fatalf("summary = %q, want fallback", pt[1].Text)
	}
}

func TestIngestDuplicateIDIsNoOp(t *testing.T) {
	c := New(&fakeBackend{}, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))
	appendUserMessage(c, "x")

	if c.Ingest(2, notif("42", true, "A")) {
		t.Fatal("duplicate id should not replace the session")
	}
	if got := len(c.PlanThread()); got != 4 {
		t.Fatalf("plan thread length = %d, duplicate ingest must not reseed", got)
	}
}

// appendUserMessage grows the plan thread so reseeding is observable.
func appendUserMessage(c *Controller, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.planThread = append(c.planThread, Message{Sender: SenderUser, Text: text})
}

func TestIngestStaleSeqDropped(t *testing.T) {
	c := New(&fakeBackend{}, "farmer-1")
	c.Ingest(5, notif("42", true, "A"))

	if c.Ingest(3, notif("99", true, "B")) {
		t.Fatal("stale seq should be dropped")
	}
	if c.SessionID() != "42" {
		t.Fatalf("session = %v, stale fetch must not win", c.SessionID())
	}
}

func TestIngestNewIDReplacesSession(t *testing.T) {
	c := New(&fakeBackend{execErr: nil}, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !c.Executed() {
		t.Fatal("session should be executed")
	}

	if !c.Ingest(2, notif("43", true, "B")) {
		t.Fatal("new id should replace the session")
	}
	if c.Executed() {
		t.Fatal("replacement must clear execution state")
	}
	if c.SessionID() != "43" {
		t.Fatalf("session = %v, want 43", c.SessionID())
	}
	if got := c.PlanThread()[1].Text; got != "B" {
		t.Fatalf("reseeded summary = %q, want B", got)
	}
}

func TestUpdatePlanWhitespaceNoCall(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.UpdatePlan(context.Background(), "   \t "); err != nil {
		t.Fatalf("whitespace update: %v", err)
	}
	if refines, _, _ := b.calls(); refines != 0 {
		t.Fatal("whitespace message must not reach the backend")
	}
	if got := len(c.PlanThread()); got != 3 {
		t.Fatalf("plan thread length = %d, want 3", got)
	}
}

func TestUpdatePlanSuccess(t *testing.T) {
	updated := &plan.Plan{TreatmentPlan: &plan.TreatmentPlan{IsActionable: true, MainMessage: "Đã đổi sang sáng thứ Ba"}}
	b := &fakeBackend{refined: updated}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.UpdatePlan(context.Background(), "đổi sang thứ Ba"); err != nil {
		t.Fatalf("update: %v", err)
	}

	pt := c.PlanThread()
	if len(pt) != 5 {
		t.Fatalf("plan thread length = %d, want 5", len(pt))
	}
	if pt[3].Sender != SenderUser || pt[3].Text != "đổi sang thứ Ba" {
		t.Fatalf("user entry = %+v", pt[3])
	}
	if pt[4].Text != "Đã đổi sang sáng thứ Ba" {
		t.Fatalf("assistant entry = %q", pt[4].Text)
	}
	if c.Plan() != updated {
		t.Fatal("plan should be replaced by the refined one")
	}
	if got := len(c.QAThread()); got != 1 {
		t.Fatalf("qa thread length = %d, plan edit must not touch it", got)
	}
}

func TestUpdatePlanFailureAppendsApology(t *testing.T) {
	b := &fakeBackend{refineErr: errors.New("boom")}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))
	before := c.Plan()

	if err := c.UpdatePlan(context.Background(), "đổi đi"); err != nil {
		t.Fatalf("update should swallow backend errors, got %v", err)
	}

	pt := c.PlanThread()
	if len(pt) != 5 {
		t.Fatalf("plan thread length = %d, want 5", len(pt))
	}
	if pt[3].Text != "đổi đi" {
		t.Fatal("optimistic user entry must survive the failure")
	}
	if pt[4].Text != apologyRefine {
		t.Fatalf("assistant entry = %q, want apology", pt[4].Text)
	}
	if c.Plan() != before {
		t.Fatal("failed refine must not change the plan")
	}
}

func TestUpdatePlanWithoutSession(t *testing.T) {
	c := New(&fakeBackend{}, "farmer-1")
	if err := c.UpdatePlan(context.Background(), "xin chào"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestAskSuccessLeavesPlanThreadAlone(t *testing.T) {
	b := &fakeBackend{answer: "Lúa của bác đang giai đoạn đẻ nhánh."}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.Ask(context.Background(), "lúa của tôi thế nào?"); err != nil {
		t.Fatalf("ask: %v", err)
	}

	qa := c.QAThread()
	if len(qa) != 3 {
		t.Fatalf("qa thread length = %d, want 3", len(qa))
	}
	if qa[2].Text != "Lúa của bác đang giai đoạn đẻ nhánh." {
		t.Fatalf("answer = %q", qa[2].Text)
	}
	if got := len(c.PlanThread()); got != 3 {
		t.Fatalf("plan thread length = %d, question must not touch it", got)
	}
}

func TestAskFailureAppendsApology(t *testing.T) {
	b := &fakeBackend{askErr: errors.New("boom")}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.Ask(context.Background(), "câu hỏi"); err != nil {
		t.Fatalf("ask should swallow backend errors, got %v", err)
	}
	qa := c.QAThread()
	if qa[len(qa)-1].Text != apologyAsk {
		t.Fatalf("last qa entry = %q, want apology", qa[len(qa)-1].Text)
	}
}

func TestAskUsesPlanFarmerIDThenIdentity(t *testing.T) {
	b := &fakeBackend{answer: "ok"}
	c := New(b, "identity-7")
	n := notif("42", true, "A")
	n.Plan.Analysis = &plan.Analysis{FarmerID: "plan-9"}
	c.Ingest(1, n)

	c.Ask(context.Background(), "q1")
	if b.lastFarmer != "plan-9" {
		t.Fatalf("farmer = %q, want plan-9", b.lastFarmer)
	}

	c2 := New(b, "identity-7")
	c2.Ingest(1, notif("43", true, "A"))
	c2.Ask(context.Background(), "q2")
	if b.lastFarmer != "identity-7" {
		t.Fatalf("farmer = %q, want identity fallback", b.lastFarmer)
	}
}

func TestAskWithoutAnyFarmerIDApologizesLocally(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, "")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, asks, _ := b.calls(); asks != 0 {
		t.Fatal("must not call the backend without a farmer id")
	}
	qa := c.QAThread()
	if qa[len(qa)-1].Text != apologyAsk {
		t.Fatalf("last qa entry = %q, want apology", qa[len(qa)-1].Text)
	}
}

func TestExecuteNotActionableRejectedLocally(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", false, "Không cần hành động"))

	if err := c.Execute(context.Background()); !errors.Is(err, ErrNotActionable) {
		t.Fatalf("err = %v, want ErrNotActionable", err)
	}
	if _, _, execs := b.calls(); execs != 0 {
		t.Fatal("non-actionable execute must not reach the backend")
	}
}

func TestExecuteSuccessIsTerminal(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if c.State() != StateExecuted {
		t.Fatalf("state = %v, want executed", c.State())
	}
	if err := c.Execute(context.Background()); !errors.Is(err, ErrExecuted) {
		t.Fatalf("second execute err = %v, want ErrExecuted", err)
	}
	if _, _, execs := b.calls(); execs != 1 {
		t.Fatalf("backend executes = %d, want exactly 1", execs)
	}

	// The executed session stops accepting plan edits but the Q&A
	// thread stays usable.
	if err := c.UpdatePlan(context.Background(), "đổi nữa"); err != nil {
		t.Fatalf("update after execute: %v", err)
	}
	if refines, _, _ := b.calls(); refines != 0 {
		t.Fatal("plan edits after execute must not reach the backend")
	}
	b.answer = "vẫn trả lời được"
	if err := c.Ask(context.Background(), "còn hỏi được không?"); err != nil {
		t.Fatalf("ask after execute: %v", err)
	}
	qa := c.QAThread()
	if qa[len(qa)-1].Text != "vẫn trả lời được" {
		t.Fatal("qa must stay alive after execute")
	}
}

func TestExecuteFailureIsRetryable(t *testing.T) {
	b := &fakeBackend{execErr: errors.New("backend down")}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	if err := c.Execute(context.Background()); err == nil {
		t.Fatal("execute should report the backend failure")
	}
	if c.Executed() {
		t.Fatal("failed execute must not be terminal")
	}
	if c.Err() == "" {
		t.Fatal("failure should record an error message")
	}

	b.mu.Lock()
	b.execErr = nil
	b.mu.Unlock()
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("retry execute: %v", err)
	}
	if _, _, execs := b.calls(); execs != 2 {
		t.Fatalf("backend executes = %d, want 2", execs)
	}
}

func TestResetDiscardsInFlightReply(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{
		refined:    &plan.Plan{TreatmentPlan: &plan.TreatmentPlan{MainMessage: "trễ"}},
		refineGate: gate,
	}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	done := make(chan struct{})
	go func() {
		c.UpdatePlan(context.Background(), "đổi đi")
		close(done)
	}()

	// Wait until the request is in flight, then reset underneath it.
	for {
		if refines, _, _ := b.calls(); refines == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	c.Reset()
	close(gate)
	<-done

	if got := len(c.PlanThread()); got != 0 {
		t.Fatalf("plan thread length = %d, stale reply must be discarded", got)
	}
	if c.State() != StateLoading {
		t.Fatalf("state = %v, want loading after reset", c.State())
	}
}

func TestAskCompletesWhilePlanEditInFlight(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{
		refined:    &plan.Plan{TreatmentPlan: &plan.TreatmentPlan{MainMessage: "đã đổi"}},
		refineGate: gate,
		answer:     "Lúa đang đẻ nhánh.",
	}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	done := make(chan struct{})
	go func() {
		c.UpdatePlan(context.Background(), "đổi đi")
		close(done)
	}()
	for {
		if refines, _, _ := b.calls(); refines == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// The plan edit is parked inside the backend. A question must not
	// wait for it.
	if err := c.Ask(context.Background(), "lúa thế nào?"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, asks, _ := b.calls(); asks != 1 {
		t.Fatalf("asks = %d, want 1 while refine is in flight", asks)
	}
	qa := c.QAThread()
	if qa[len(qa)-1].Text != "Lúa đang đẻ nhánh." {
		t.Fatalf("qa tail = %q", qa[len(qa)-1].Text)
	}

	close(gate)
	<-done
	pt := c.PlanThread()
	if pt[len(pt)-1].Text != "đã đổi" {
		t.Fatalf("plan tail = %q, refine reply should still land", pt[len(pt)-1].Text)
	}
}

func TestConcurrentDoubleExecuteSingleCall(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{execGate: gate}
	c := New(b, "farmer-1")
	c.Ingest(1, notif("42", true, "A"))

	done := make(chan error, 1)
	go func() { done <- c.Execute(context.Background()) }()
	for {
		if _, _, execs := b.calls(); execs == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Second press while the first is still on the wire is rejected
	// locally.
	if err := c.Execute(context.Background()); !errors.Is(err, ErrExecuteInFlight) {
		t.Fatalf("err = %v, want ErrExecuteInFlight", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if _, _, execs := b.calls(); execs != 1 {
		t.Fatalf("backend executes = %d, want exactly 1", execs)
	}
	if !c.Executed() {
		t.Fatal("session should be executed")
	}
}

func TestFailOnlyMattersWithoutSession(t *testing.T) {
	c := New(&fakeBackend{}, "farmer-1")
	c.BeginLoading()
	if c.State() != StateLoading {
		t.Fatalf("state = %v, want loading", c.State())
	}
	c.Fail(errors.New("mạng lỗi"))
	if c.State() != StateError {
		t.Fatalf("state = %v, want error", c.State())
	}

	c.Ingest(1, notif("42", true, "A"))
	c.Fail(errors.New("lỗi sau"))
	if c.State() != StateAwaitingInput {
		t.Fatalf("state = %v, a live session must survive a load failure", c.State())
	}
	if c.Err() != "" {
		t.Fatal("load failure with a live session must not record an error")
	}
}
