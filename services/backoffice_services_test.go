package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"testing"
	"time"

	"agency-backoffice-api/models"
	"agency-backoffice-api/testutil"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
)

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func validPolicyInput(number string) *PolicyInput {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &PolicyInput{
		PolicyNumber: number,
		ClientName:   "Mary Wanjiku",
		Insurer:      "Jubilee",
		Type:         "motor_insurance",
		Status:       models.PolicyStatusActive,
		Premium:      25000,
		SumInsured:   1500000,
		StartDate:    start,
		ExpiryDate:   start.AddDate(1, 0, 0),
	}
}

func TestPolicyCreateValidatesAndRejectsDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPolicyService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validPolicyInput("POL-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, validPolicyInput("POL-1")); !errors.Is(err, ErrPolicyNumberTaken) {
		t.Fatalf("expected ErrPolicyNumberTaken, got %v", err)
	}

	bad := validPolicyInput("POL-2")
	bad.Status = "expired"
	var ve *utils.ValidationError
	if _, err := svc.Create(ctx, bad); !errors.As(err, &ve) || ve.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}

	backwards := validPolicyInput("POL-3")
	backwards.ExpiryDate = backwards.StartDate
	if _, err := svc.Create(ctx, backwards); !errors.As(err, &ve) || ve.Field != "expiry_date" {
		t.Fatalf("expected expiry_date validation error, got %v", err)
	}
}

func TestPolicyDeleteBlockedByClaims(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.CreatePolicy(t, db, "POL-9", models.PolicyStatusActive, time.Now().UTC().AddDate(0, 6, 0))

	claims := NewClaimService(db, NewFileStorage(t.TempDir()))
	claim, err := claims.Create(ctx, &ClaimInput{
		PolicyID:     p.PolicyID,
		IncidentDate: time.Now().UTC(),
		Type:         "Theft",
	}, nil)
	if err != nil {
		t.Fatalf("creating claim: %v", err)
	}

	policies := NewPolicyService(db)
	if err := policies.Delete(ctx, p.PolicyID); !errors.Is(err, ErrPolicyHasClaims) {
		t.Fatalf("expected ErrPolicyHasClaims, got %v", err)
	}

	if err := claims.Delete(ctx, claim.ClaimID); err != nil {
		t.Fatalf("deleting claim: %v", err)
	}
	if err := policies.Delete(ctx, p.PolicyID); err != nil {
		t.Fatalf("expected delete to succeed once claims are gone: %v", err)
	}
	if err := policies.Delete(ctx, p.PolicyID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPolicyDeleteKeepsNotifications(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.CreatePolicy(t, db, "POL-10", models.PolicyStatusActive, time.Now().UTC().AddDate(0, 0, 3))
	n := testutil.CreateNotification(t, db, &p.PolicyID, models.NotificationTypePolicyExpiry, false)

	if err := NewPolicyService(db).Delete(ctx, p.PolicyID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var kept models.Notification
	if err := db.First(&kept, "notification_id = ?", n.NotificationID).Error; err != nil {
		t.Fatalf("expected notification to survive policy delete: %v", err)
	}
	if kept.PolicyID != nil {
		t.Fatalf("expected policy reference to be cleared, got %v", *kept.PolicyID)
	}
}

func TestFindPolicyByNumber(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreatePolicy(t, db, "KX-100", models.PolicyStatusActive, time.Now().UTC())
	svc := NewPolicyService(db)

	p, err := svc.FindByNumber(context.Background(), " KX-100 ")
	if err != nil || p.PolicyNumber != "KX-100" {
		t.Fatalf("expected KX-100, got %v, %v", p, err)
	}
	if _, err := svc.FindByNumber(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotificationFeedMarksEverythingRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)

	testutil.CreateNotification(t, db, nil, "info", true)
	for i := 0; i < 3; i++ {
		testutil.CreateNotification(t, db, nil, "info", false)
	}

	count, err := svc.UnreadCount(ctx)
	if err != nil || count != 3 {
		t.Fatalf("expected 3 unread, got %d, %v", count, err)
	}

	feed, err := svc.ViewFeed(ctx)
	if err != nil {
		t.Fatalf("ViewFeed: %v", err)
	}
	if len(feed.Items) != 4 || feed.UnreadCount != 3 {
		t.Fatalf("expected 4 items with 3 unread, got %d/%d", len(feed.Items), feed.UnreadCount)
	}
	for i := 1; i < len(feed.Items); i++ {
		if feed.Items[i].CreatedAt.After(feed.Items[i-1].CreatedAt) {
			t.Fatalf("expected newest first")
		}
	}

	count, err = svc.UnreadCount(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected 0 unread after viewing, got %d, %v", count, err)
	}
}

func TestNotificationFeedLeavesLateArrivalsUnread(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)

	testutil.CreateNotification(t, db, nil, "info", false)
	testutil.CreateNotification(t, db, nil, "info", false)

	// Insert a notification right after the feed query returns, before the
	// read flags are updated.
	inserted := false
	err := db.Callback().Query().After("gorm:query").Register("test:late_notification", func(tx *gorm.DB) {
		if inserted || tx.Statement.Table != "notifications" {
			return
		}
		inserted = true
		late := &models.Notification{Type: "info", Title: "Late", Message: "arrived during view", CreatedAt: time.Now().UTC()}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(late).Error; err != nil {
			t.Errorf("inserting late notification: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("registering callback: %v", err)
	}

	feed, err := svc.ViewFeed(ctx)
	if err != nil {
		t.Fatalf("ViewFeed: %v", err)
	}
	if !inserted {
		t.Fatalf("late notification was not inserted")
	}
	if len(feed.Items) != 2 || feed.UnreadCount != 2 {
		t.Fatalf("expected 2 items with 2 unread, got %d/%d", len(feed.Items), feed.UnreadCount)
	}

	count, err := svc.UnreadCount(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected the late notification to stay unread, got %d, %v", count, err)
	}
	var late models.Notification
	if err := db.Where("title = ?", "Late").First(&late).Error; err != nil {
		t.Fatalf("loading late notification: %v", err)
	}
	if late.IsRead {
		t.Fatalf("late notification was marked read without being shown")
	}
}

func TestNotificationMarkRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)

	n := testutil.CreateNotification(t, db, nil, "info", false)
	if err := svc.MarkRead(ctx, n.NotificationID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if count, _ := svc.UnreadCount(ctx); count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
	if err := svc.MarkRead(ctx, 9999); !errors.Is(err, ErrNotificationMissing) {
		t.Fatalf("expected ErrNotificationMissing, got %v", err)
	}
}

func TestLeadLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewLeadService(db)

	lead, err := svc.Create(ctx, &LeadInput{
		FullName:    "Otieno",
		PhoneNumber: "+254700000000",
		Priority:    "high",
		Source:      "referral",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.Status != models.LeadStatusNew {
		t.Fatalf("expected default status new, got %q", lead.Status)
	}

	converted, err := svc.Convert(ctx, lead.LeadID)
	if err != nil || converted.Status != models.LeadStatusConverted {
		t.Fatalf("expected converted lead, got %+v, %v", converted, err)
	}

	if _, err := svc.Create(ctx, &LeadInput{FullName: "X", Priority: "urgent", Source: "call"}); err == nil {
		t.Fatalf("expected invalid priority to be rejected")
	}

	if err := svc.Delete(ctx, lead.LeadID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Convert(ctx, lead.LeadID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommissionRequiresPositiveAmount(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.CreatePolicy(t, db, "COM-1", models.PolicyStatusActive, time.Now().UTC().AddDate(1, 0, 0))
	svc := NewCommissionService(db)

	in := &CommissionInput{PolicyID: p.PolicyID, Amount: 0, Status: models.CommissionStatusPaid, CommissionDate: time.Now()}
	if _, err := svc.Create(ctx, in); err == nil {
		t.Fatalf("expected zero amount to be rejected")
	}

	in.Amount = 1200
	cm, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in.Amount = 1500
	in.Status = models.CommissionStatusPending
	updated, err := svc.Update(ctx, cm.CommissionID, in)
	if err != nil || updated.Amount != 1500 || updated.Status != models.CommissionStatusPending {
		t.Fatalf("unexpected update result %+v, %v", updated, err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 || list[0].Policy.PolicyNumber != "COM-1" {
		t.Fatalf("expected one commission with policy, got %+v, %v", list, err)
	}
}

func TestDashboardStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)

	active := testutil.CreatePolicy(t, db, "D-1", models.PolicyStatusActive, now.AddDate(0, 3, 0))
	testutil.CreatePolicy(t, db, "D-2", models.PolicyStatusPending, now.AddDate(0, 3, 0))
	testutil.CreateNotification(t, db, nil, "info", false)

	leads := NewLeadService(db)
	first, _ := leads.Create(ctx, &LeadInput{FullName: "A", Priority: "low", Source: "call"})
	if _, err := leads.Create(ctx, &LeadInput{FullName: "B", Priority: "low", Source: "call"}); err != nil {
		t.Fatalf("creating lead: %v", err)
	}
	if _, err := leads.Convert(ctx, first.LeadID); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	commissions := NewCommissionService(db)
	for _, c := range []CommissionInput{
		{PolicyID: active.PolicyID, Amount: 100, Status: models.CommissionStatusPaid, CommissionDate: now.AddDate(0, 0, -2)},
		{PolicyID: active.PolicyID, Amount: 50, Status: models.CommissionStatusPending, CommissionDate: now},
		{PolicyID: active.PolicyID, Amount: 70, Status: models.CommissionStatusPaid, CommissionDate: now.AddDate(0, -1, 0)},
	} {
		c := c
		if _, err := commissions.Create(ctx, &c); err != nil {
			t.Fatalf("creating commission: %v", err)
		}
	}

	svc := NewDashboardService(db)
	svc.now = func() time.Time { return now }
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalLeads != 2 || stats.ActivePolicies != 1 || stats.UnreadNotifications != 1 {
		t.Fatalf("unexpected counters %+v", stats)
	}
	if stats.MonthlyCommission != 100 {
		t.Fatalf("expected 100 paid this month, got %v", stats.MonthlyCommission)
	}
	if stats.ConversionRate != 50 {
		t.Fatalf("expected 50%% conversion, got %v", stats.ConversionRate)
	}
}

func TestDocumentUploadAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	storage := NewFileStorage(t.TempDir())
	svc := NewDocumentService(db, storage)
	uploader := testutil.CreateUser(t, db, "agent@agency.test", models.RoleUser, "x")

	doc, err := svc.Upload(ctx, "Mary", "kycId", newFileHeader(t, "id.pdf", []byte("%PDF-1.4")), uploader.UserID)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.Name != "id.pdf" || doc.SizeBytes != 8 {
		t.Fatalf("unexpected document %+v", doc)
	}
	path, err := svc.Path(doc)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}

	if _, err := svc.Upload(ctx, "Mary", "passport", newFileHeader(t, "id.pdf", []byte("x")), uploader.UserID); err == nil {
		t.Fatalf("expected unknown document type to be rejected")
	}
	if _, err := svc.Upload(ctx, "Mary", "policy", newFileHeader(t, "run.exe", []byte("x")), uploader.UserID); !errors.Is(err, ErrFileTypeForbidden) {
		t.Fatalf("expected ErrFileTypeForbidden, got %v", err)
	}

	if err := svc.Delete(ctx, doc.DocumentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected stored file to be removed, stat err %v", err)
	}
}

func TestClaimKeepsEvidenceFiles(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.CreatePolicy(t, db, "CL-1", models.PolicyStatusActive, time.Now().UTC().AddDate(1, 0, 0))
	svc := NewClaimService(db, NewFileStorage(t.TempDir()))

	claim, err := svc.Create(ctx, &ClaimInput{
		PolicyID:         p.PolicyID,
		IncidentDate:     time.Now().UTC(),
		Type:             "Accident",
		EstimatedLossKes: 80000,
	}, []*multipart.FileHeader{newFileHeader(t, "photo.jpg", []byte("jpeg"))})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if claim.Status != "Pending" || len(claim.EvidenceDocuments) != 1 {
		t.Fatalf("unexpected claim %+v", claim)
	}
	stored := claim.EvidenceDocuments[0].StoredPath

	if _, err := svc.Create(ctx, &ClaimInput{PolicyID: 9999, IncidentDate: time.Now(), Type: "Fire"}, nil); err == nil {
		t.Fatalf("expected unknown policy to be rejected")
	}

	if err := svc.Delete(ctx, claim.ClaimID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("expected evidence file to be removed")
	}
	var docs int64
	db.Model(&models.ClaimDocument{}).Count(&docs)
	if docs != 0 {
		t.Fatalf("expected evidence rows to be removed, %d left", docs)
	}
}

func TestUserServiceGuards(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)
	admin := testutil.CreateUser(t, db, "boss@agency.test", models.RoleAdmin, "x")
	user := testutil.CreateUser(t, db, "agent@agency.test", models.RoleUser, "x")

	if err := svc.Delete(ctx, admin.UserID, admin.UserID); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if _, err := svc.Update(ctx, user.UserID, "Agent", "superuser"); err == nil {
		t.Fatalf("expected unknown role to be rejected")
	}
	updated, err := svc.Update(ctx, user.UserID, "Agent", models.RoleAdmin)
	if err != nil || updated.Role != models.RoleAdmin {
		t.Fatalf("expected promotion, got %+v, %v", updated, err)
	}
	if err := svc.ChangePassword(ctx, user.UserID, "new-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := NewAuthService(db, nil).Authenticate(ctx, "agent@agency.test", "new-pass"); err != nil {
		t.Fatalf("expected new password to authenticate: %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	created, isNew, err := svc.EnsureAdmin(ctx, "Root", "root@agency.test", "root-pass")
	if err != nil || !isNew || created.Role != models.RoleAdmin {
		t.Fatalf("expected new admin, got %+v, %v, %v", created, isNew, err)
	}

	testutil.CreateUser(t, db, "agent@agency.test", models.RoleUser, "x")
	promoted, isNew, err := svc.EnsureAdmin(ctx, "", "agent@agency.test", "")
	if err != nil || isNew || promoted.Role != models.RoleAdmin {
		t.Fatalf("expected promotion of existing user, got %+v, %v, %v", promoted, isNew, err)
	}
}
