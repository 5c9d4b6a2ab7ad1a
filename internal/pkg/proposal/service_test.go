package proposal

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/creatorkart/CreatorKart/app/models"
	"github.com/creatorkart/CreatorKart/app/repository"
)

// fakeOutbox records enqueued jobs instead of touching redis.
type fakeOutbox struct {
	mu            sync.Mutex
	notifications []NotificationJob
	invoices      []InvoiceJob
}

func (f *fakeOutbox) EnqueueProposalNotification(job NotificationJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, job)
	return nil
}

func (f *fakeOutbox) EnqueueInvoiceGeneration(job InvoiceJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices = append(f.invoices, job)
	return nil
}

var testDBCounter int

func setupService(t *testing.T) (*Service, *repository.Repositories, *fakeOutbox) {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:proposal_test_%d_%d?mode=memory&cache=shared", testDBCounter, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite cannot take concurrent writers; one pooled connection
	// serializes transactions without changing their outcome
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Influencer{},
		&models.WebsiteListing{},
		&models.Cart{},
		&models.LineItem{},
		&models.Checkout{},
		&models.BillingDetail{},
		&models.ProposalToken{},
	))

	seedCatalog(t, db)

	repos := repository.NewRepositories(db)
	outbox := &fakeOutbox{}
	return NewService(repos, outbox), repos, outbox
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	user, err := models.CreateUser("Test Operator", "operator@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)

	influencers := []models.Influencer{
		{Handle: "cryptocarla", Platform: "youtube", Followers: 120000, Price: dec("100"), IsActive: true},
		{Handle: "techtobi", Platform: "twitter", Followers: 54000, Price: dec("50"), IsActive: true},
		{Handle: "gamergreta", Platform: "twitch", Followers: 200000, Price: dec("30"), IsActive: true},
	}
	require.NoError(t, db.Create(&influencers).Error)

	listings := []models.WebsiteListing{
		{Domain: "cryptonews.example", DomainRating: 72, MonthlyTraffic: 400000, Price: dec("20")},
		{Domain: "fintechdaily.example", DomainRating: 65, MonthlyTraffic: 150000, Price: dec("10")},
	}
	require.NoError(t, db.Create(&listings).Error)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func billingFixture() BillingInput {
	return BillingInput{
		ClientName:              "Acme Labs",
		ProjectName:             "Q3 Launch",
		ContactEmail:            "client@acme.example",
		ContactPhone:            "+49 151 1234567",
		ManagementFeePercentage: dec("20"),
		Discount:                dec("10"),
	}
}

func createProposal(t *testing.T, svc *Service, items []ItemInput) *CreateResult {
	t.Helper()

	res, err := svc.Create(context.Background(), CreateInput{
		UserID:  1,
		Billing: billingFixture(),
		Items:   items,
		Notify:  true,
	})
	require.NoError(t, err)
	return res
}

func TestCreateProposal(t *testing.T) {
	svc, repos, outbox := setupService(t)

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1, Quantity: 2},
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2},
		{ItemType: models.ITEM_TYPE_WEBSITE, CatalogID: 1},
	})

	// creation commits the plain sum: 100*2 + 50 + 20, no discount or fee
	assert.True(t, res.TotalAmount.Equal(dec("270")), "total %s", res.TotalAmount)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "client@acme.example", res.Email)
	assert.WithinDuration(t, time.Now().Add(models.ProposalTokenTTL), res.ExpiresAt, time.Minute)

	detail, err := repos.BillingDetail.GetByCheckoutID(res.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, models.PROPOSAL_SENT, detail.ProposalStatus)
	assert.Equal(t, models.INVOICE_NOT_PAID, detail.InvoiceStatus)
	assert.Equal(t, models.PAYMENT_UNPAID, detail.PaymentStatus)
	assert.True(t, detail.TotalAmount.Equal(dec("270")))

	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "cryptocarla", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.False(t, items[0].IsClientApproved)

	require.Len(t, outbox.notifications, 1)
	assert.Equal(t, res.Token, outbox.notifications[0].Token)
}

func TestCreateProposalUnknownUser(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:  999,
		Billing: billingFixture(),
		Items:   []ItemInput{{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProposalRejectsDiscountOutOfRange(t *testing.T) {
	svc, _, _ := setupService(t)

	billing := billingFixture()
	billing.Discount = dec("150")
	_, err := svc.Create(context.Background(), CreateInput{
		UserID:  1,
		Billing: billing,
		Items:   []ItemInput{{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1}},
	})
	assert.True(t, IsValidation(err), "expected validation error, got %v", err)
}

func TestEditIsIdempotent(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})

	update := BillingUpdate{ProjectName: strPtr("Q4 Launch")}
	items := []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2, Quantity: 3},
		{ItemType: models.ITEM_TYPE_WEBSITE, CatalogID: 2},
	}

	first, err := svc.Edit(ctx, res.CheckoutID, update, items)
	require.NoError(t, err)
	second, err := svc.Edit(ctx, res.CheckoutID, update, items)
	require.NoError(t, err)

	// 50*3 + 10, unweighted; identical inputs yield identical totals
	assert.True(t, first.TotalAmount.Equal(dec("160")), "total %s", first.TotalAmount)
	assert.True(t, second.TotalAmount.Equal(first.TotalAmount))
}

func TestEditKeepsAbsentBillingFields(t *testing.T) {
	svc, repos, _ := setupService(t)

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})

	_, err := svc.Edit(context.Background(), res.CheckoutID,
		BillingUpdate{ProjectName: strPtr("Renamed")},
		[]ItemInput{{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1}})
	require.NoError(t, err)

	detail, err := repos.BillingDetail.GetByCheckoutID(res.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.ProjectName)
	assert.Equal(t, "Acme Labs", detail.ClientName)
	assert.Equal(t, "client@acme.example", detail.ContactEmail)
	assert.True(t, detail.Discount.Equal(dec("10")))
}

func TestResendPreservesApprovalByCatalogID(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2},
	})

	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	require.NoError(t, repos.Cart.UpdateItemApproval(items[0].ID, true))

	// resend keeps catalog 1 (new price), drops catalog 2, adds a website
	resend, err := svc.Resend(ctx, res.CheckoutID, BillingUpdate{
		Discount:                decPtr("0"),
		ManagementFeePercentage: decPtr("0"),
	}, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1, Price: decPtr("120")},
		{ItemType: models.ITEM_TYPE_WEBSITE, CatalogID: 1},
	})
	require.NoError(t, err)

	after, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	require.Len(t, after, 2)

	var kept *models.LineItem
	for i := range after {
		if after[i].ItemType == models.ITEM_TYPE_INFLUENCER && after[i].CatalogID == 1 {
			kept = &after[i]
		}
		assert.NotEqual(t, uint(2), after[i].CatalogID, "catalog 2 influencer should be removed")
	}
	require.NotNil(t, kept)
	assert.True(t, kept.IsClientApproved, "approval must survive the resend")
	assert.True(t, kept.Price.Equal(dec("120")), "price must be updated in place")
	assert.Equal(t, items[0].ID, kept.ID, "row must be updated, not recreated")

	// 120 + 20, zero discount and fee
	assert.True(t, resend.TotalAmount.Equal(dec("140")), "total %s", resend.TotalAmount)
	assert.NotEqual(t, res.Token, resend.Token, "resend must mint a fresh token")
}

func TestResendAppendsNewItemsAfterKept(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2},
	})

	_, err := svc.Resend(ctx, res.CheckoutID, BillingUpdate{}, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2},
		{ItemType: models.ITEM_TYPE_WEBSITE, CatalogID: 1},
	})
	require.NoError(t, err)

	after, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	require.Len(t, after, 3)

	// position ordering keeps the kept rows first and appends the new one
	assert.Equal(t, uint(1), after[0].CatalogID)
	assert.Equal(t, uint(2), after[1].CatalogID)
	assert.Equal(t, models.ITEM_TYPE_WEBSITE, after[2].ItemType)
	assert.Greater(t, after[2].Position, after[1].Position)
}

func TestResendSupersedesOldToken(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})
	resend, err := svc.Resend(ctx, res.CheckoutID, BillingUpdate{},
		[]ItemInput{{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1}})
	require.NoError(t, err)

	latest, err := repos.ProposalToken.GetLatestByCartID(res.CartID)
	require.NoError(t, err)
	assert.Equal(t, resend.Token, latest.Token)

	// the old row is still in storage, just unreachable via the cart lookup
	old, err := repos.ProposalToken.GetByToken(res.Token)
	require.NoError(t, err)
	assert.False(t, old.IsUsed)
}

func TestSubmitCountsApprovedItemsOnly(t *testing.T) {
	svc, repos, outbox := setupService(t)
	ctx := context.Background()

	// influencers priced 100/50/30; set billing terms to zero so the
	// committed total is the raw approved subtotal
	res, err := svc.Create(ctx, CreateInput{
		UserID: 1,
		Billing: BillingInput{
			ClientName:   "Acme Labs",
			ContactEmail: "client@acme.example",
		},
		Items: []ItemInput{
			{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1, Price: decPtr("10")},
			{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2, Price: decPtr("20")},
			{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 3, Price: decPtr("30")},
		},
	})
	require.NoError(t, err)

	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)

	submit, err := svc.Submit(ctx, res.Token, BillingUpdate{}, []ApprovalInput{
		{LineItemID: items[0].ID, Approved: true},
		{LineItemID: items[1].ID, Approved: true},
	})
	require.NoError(t, err)

	assert.True(t, submit.TotalAmount.Equal(dec("30")), "approved-only total, got %s", submit.TotalAmount)

	checkout, err := repos.Checkout.GetByID(res.CheckoutID)
	require.NoError(t, err)
	assert.True(t, checkout.TotalAmount.Equal(dec("30")))

	detail, err := repos.BillingDetail.GetByCheckoutID(res.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, models.PROPOSAL_SENT, detail.ProposalStatus)
	assert.Equal(t, models.INVOICE_NOT_PAID, detail.InvoiceStatus)
	assert.Equal(t, models.PAYMENT_UNPAID, detail.PaymentStatus)
	assert.True(t, detail.TotalAmount.Equal(dec("30")))

	require.Len(t, outbox.invoices, 1)
	assert.Equal(t, res.CheckoutID, outbox.invoices[0].CheckoutID)
}

func TestSubmitAppliesDiscountAndFee(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1, Quantity: 2}, // 100 x2
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2},              // 50
	})

	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	approvals := make([]ApprovalInput, 0, len(items))
	for _, it := range items {
		approvals = append(approvals, ApprovalInput{LineItemID: it.ID, Approved: true})
	}

	// subtotal 250, -10% = 225, +20% fee = 270
	submit, err := svc.Submit(ctx, res.Token, BillingUpdate{}, approvals)
	require.NoError(t, err)
	assert.True(t, submit.TotalAmount.Equal(dec("270")), "total %s", submit.TotalAmount)
}

func TestSubmitTwiceFailsAlreadyUsed(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})
	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	approvals := []ApprovalInput{{LineItemID: items[0].ID, Approved: true}}

	_, err = svc.Submit(ctx, res.Token, BillingUpdate{}, approvals)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, res.Token, BillingUpdate{}, approvals)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestConcurrentSubmitSingleWinner(t *testing.T) {
	svc, repos, outbox := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})
	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	approvals := []ApprovalInput{{LineItemID: items[0].ID, Approved: true}}

	const attempts = 8
	errs := make(chan error, attempts)
	var release sync.WaitGroup
	release.Add(1)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release.Wait()
			_, err := svc.Submit(ctx, res.Token, BillingUpdate{}, approvals)
			errs <- err
		}()
	}
	release.Done()
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyUsed)
		lost++
	}
	assert.Equal(t, 1, won, "exactly one submission may burn the token")
	assert.Equal(t, attempts-1, lost)
	assert.Len(t, outbox.invoices, 1, "only the winner enqueues an invoice")
}

func TestMarkUsedIsCompareAndSet(t *testing.T) {
	svc, repos, _ := setupService(t)

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})
	token, err := repos.ProposalToken.GetByToken(res.Token)
	require.NoError(t, err)

	ok, err := repos.ProposalToken.MarkUsed(token.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.ProposalToken.MarkUsed(token.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "second burn must lose the compare-and-set")
}

func TestExpiredTokenFailsOnReadAndSubmit(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})

	// age the token directly
	require.NoError(t, repos.DB().Model(&models.ProposalToken{}).
		Where("token = ?", res.Token).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err := svc.GetByToken(ctx, res.Token)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = svc.Submit(ctx, res.Token, BillingUpdate{}, nil)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestGetByToken(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1, Quantity: 2},
		{ItemType: models.ITEM_TYPE_WEBSITE, CatalogID: 1},
	})

	view, err := svc.GetByToken(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, view.IsSubmitted)
	assert.Equal(t, res.CartID, view.CartID)
	assert.Equal(t, "client@acme.example", view.Email)
	require.NotNil(t, view.Billing)
	assert.Equal(t, "Acme Labs", view.Billing.ClientName)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "cryptocarla", view.Items[0].Name)
	assert.Equal(t, 2, view.Items[0].Quantity)

	_, err = svc.GetByToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, res.Token, BillingUpdate{}, []ApprovalInput{{LineItemID: items[0].ID, Approved: true}})
	require.NoError(t, err)

	view, err = svc.GetByToken(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, view.IsSubmitted)
	assert.Nil(t, view.Billing, "submitted tokens return the terminal view only")
}

func TestApplyApprovalsBurnsTokenWithoutCommit(t *testing.T) {
	svc, repos, outbox := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 2},
	})
	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)

	_, err = svc.ApplyApprovals(ctx, res.Token, BillingUpdate{}, []ApprovalInput{
		{LineItemID: items[0].ID, Approved: true},
	})
	require.NoError(t, err)

	// approvals applied
	after, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	assert.True(t, after[0].IsClientApproved)
	assert.False(t, after[1].IsClientApproved)

	// but no final commit: total and no invoice job
	checkout, err := repos.Checkout.GetByID(res.CheckoutID)
	require.NoError(t, err)
	assert.True(t, checkout.TotalAmount.Equal(dec("150")), "total untouched, got %s", checkout.TotalAmount)
	assert.Empty(t, outbox.invoices)

	// the token is burned anyway
	view, err := svc.GetByToken(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, view.IsSubmitted)
}

func TestDeleteGuard(t *testing.T) {
	svc, repos, _ := setupService(t)
	ctx := context.Background()

	res := createProposal(t, svc, []ItemInput{
		{ItemType: models.ITEM_TYPE_INFLUENCER, CatalogID: 1},
	})

	detail, err := repos.BillingDetail.GetByCheckoutID(res.CheckoutID)
	require.NoError(t, err)
	detail.ProposalStatus = models.PROPOSAL_APPROVED
	require.NoError(t, repos.BillingDetail.Update(detail))

	err = svc.Delete(ctx, res.CheckoutID)
	assert.ErrorIs(t, err, ErrConflict)

	// everything still there
	_, err = repos.Checkout.GetByID(res.CheckoutID)
	assert.NoError(t, err)
	items, err := repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// unlock and delete for real
	detail.ProposalStatus = models.PROPOSAL_REJECTED
	require.NoError(t, repos.BillingDetail.Update(detail))
	require.NoError(t, svc.Delete(ctx, res.CheckoutID))

	_, err = repos.Checkout.GetByID(res.CheckoutID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	items, err = repos.Cart.GetItems(res.CartID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteUnknownCheckout(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.Delete(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}
