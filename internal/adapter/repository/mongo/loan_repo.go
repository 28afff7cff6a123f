package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iho/loantrack/internal/domain"
)

const (
	// LoanCollectionName is the name of the loan collection in MongoDB
	LoanCollectionName = "loans"
)

// LoanRepository implements loan persistence on MongoDB.
type LoanRepository struct {
	db *mongo.Database
}

// NewLoanRepository creates a new MongoDB loan repository
func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{db: db}
}

// loanDoc is the stored shape of a loan. Monetary fields are kept as
// strings so no precision is lost in BSON.
type loanDoc struct {
	ID              string       `bson:"_id"`
	OwnerID         string       `bson:"owner_id"`
	BorrowerID      string       `bson:"borrower_id"`
	Principal       string       `bson:"principal"`
	InterestRate    string       `bson:"interest_rate"`
	DurationMonths  int          `bson:"duration_months"`
	TotalAmount     string       `bson:"total_amount"`
	MonthlyAmount   string       `bson:"monthly_amount"`
	AmountPaid      string       `bson:"amount_paid"`
	BalanceAmount   string       `bson:"balance_amount"`
	Status          string       `bson:"status"`
	StartDate       time.Time    `bson:"start_date"`
	NextPaymentDate time.Time    `bson:"next_payment_date"`
	LastPaymentDate *time.Time   `bson:"last_payment_date,omitempty"`
	PaymentHistory  []paymentDoc `bson:"payment_history"`
	Version         int64        `bson:"version"`
	CreatedAt       time.Time    `bson:"created_at"`
	UpdatedAt       time.Time    `bson:"updated_at"`
}

type paymentDoc struct {
	ID            string    `bson:"id"`
	Amount        string    `bson:"amount"`
	Date          time.Time `bson:"date"`
	Method        string    `bson:"method"`
	TransactionID string    `bson:"transaction_id,omitempty"`
	Notes         string    `bson:"notes,omitempty"`
}

// Create inserts a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	collection := r.db.Collection(LoanCollectionName)

	if _, err := collection.InsertOne(ctx, toDoc(loan)); err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

// GetByID retrieves a loan by ID
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	collection := r.db.Collection(LoanCollectionName)

	var doc loanDoc
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return fromDoc(&doc)
}

// Update persists the loan with a compare-and-swap on its version. The
// filter matches both _id and the version the caller read, so a concurrent
// writer that already bumped the version makes this a no-op and the caller
// gets ErrVersionConflict.
func (r *LoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	collection := r.db.Collection(LoanCollectionName)

	doc := toDoc(loan)
	doc.Version = loan.Version + 1

	filter := bson.M{"_id": loan.ID, "version": loan.Version}
	result, err := collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either the loan is gone or another writer won the race.
		count, err := collection.CountDocuments(ctx, bson.M{"_id": loan.ID})
		if err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		if count == 0 {
			return domain.ErrLoanNotFound
		}
		return domain.ErrVersionConflict
	}

	loan.Version = doc.Version
	return nil
}

// Delete removes a loan
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(LoanCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// ListByOwner retrieves paginated loans lent by the given owner,
// newest first.
func (r *LoanRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Loan, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID}, limit, offset)
}

// ListByBorrower retrieves paginated loans borrowed by the given user,
// newest first.
func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error) {
	return r.list(ctx, bson.M{"borrower_id": borrowerID}, limit, offset)
}

func (r *LoanRepository) list(ctx context.Context, filter bson.M, limit, offset int) ([]*domain.Loan, error) {
	collection := r.db.Collection(LoanCollectionName)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor)
}

// ListActiveDueBetween returns active loans whose next installment falls
// within [from, to]. This is the notification scan query; next_payment_date
// is indexed for it.
func (r *LoanRepository) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Loan, error) {
	collection := r.db.Collection(LoanCollectionName)

	filter := bson.M{
		"status": string(domain.LoanStatusActive),
		"next_payment_date": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}

	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"next_payment_date": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list due loans: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor)
}

// EnsureIndexes creates the indexes the repository's queries rely on.
func (r *LoanRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(LoanCollectionName)

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "borrower_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "next_payment_date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create loan indexes: %w", err)
	}

	return nil
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Loan, error) {
	var docs []loanDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode loans: %w", err)
	}

	loans := make([]*domain.Loan, 0, len(docs))
	for i := range docs {
		loan, err := fromDoc(&docs[i])
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, nil
}

func toDoc(loan *domain.Loan) *loanDoc {
	history := make([]paymentDoc, 0, len(loan.PaymentHistory))
	for _, p := range loan.PaymentHistory {
		history = append(history, paymentDoc{
			ID:            p.ID,
			Amount:        p.Amount.String(),
			Date:          p.Date,
			Method:        string(p.Method),
			TransactionID: p.TransactionID,
			Notes:         p.Notes,
		})
	}

	return &loanDoc{
		ID:              loan.ID,
		OwnerID:         loan.OwnerID,
		BorrowerID:      loan.BorrowerID,
		Principal:       loan.Principal.String(),
		InterestRate:    loan.InterestRate.String(),
		DurationMonths:  loan.DurationMonths,
		TotalAmount:     loan.TotalAmount.String(),
		MonthlyAmount:   loan.MonthlyAmount.String(),
		AmountPaid:      loan.AmountPaid.String(),
		BalanceAmount:   loan.BalanceAmount.String(),
		Status:          string(loan.Status),
		StartDate:       loan.StartDate,
		NextPaymentDate: loan.NextPaymentDate,
		LastPaymentDate: loan.LastPaymentDate,
		PaymentHistory:  history,
		Version:         loan.Version,
		CreatedAt:       loan.CreatedAt,
		UpdatedAt:       loan.UpdatedAt,
	}
}

func fromDoc(doc *loanDoc) (*domain.Loan, error) {
	amounts := map[string]string{
		"principal":      doc.Principal,
		"interest_rate":  doc.InterestRate,
		"total_amount":   doc.TotalAmount,
		"monthly_amount": doc.MonthlyAmount,
		"amount_paid":    doc.AmountPaid,
		"balance_amount": doc.BalanceAmount,
	}
	parsed := make(map[string]decimal.Decimal, len(amounts))
	for field, raw := range amounts {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("loan %s: corrupt %s %q: %w", doc.ID, field, raw, err)
		}
		parsed[field] = d
	}

	history := make([]domain.PaymentRecord, 0, len(doc.PaymentHistory))
	for _, p := range doc.PaymentHistory {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("loan %s: corrupt payment amount %q: %w", doc.ID, p.Amount, err)
		}
		history = append(history, domain.PaymentRecord{
			ID:            p.ID,
			Amount:        amount,
			Date:          p.Date,
			Method:        domain.PaymentMethod(p.Method),
			TransactionID: p.TransactionID,
			Notes:         p.Notes,
		})
	}

	return &domain.Loan{
		ID:              doc.ID,
		OwnerID:         doc.OwnerID,
		BorrowerID:      doc.BorrowerID,
		Principal:       parsed["principal"],
		InterestRate:    parsed["interest_rate"],
		DurationMonths:  doc.DurationMonths,
		TotalAmount:     parsed["total_amount"],
		MonthlyAmount:   parsed["monthly_amount"],
		AmountPaid:      parsed["amount_paid"],
		BalanceAmount:   parsed["balance_amount"],
		Status:          domain.LoanStatus(doc.Status),
		StartDate:       doc.StartDate,
		NextPaymentDate: doc.NextPaymentDate,
		LastPaymentDate: doc.LastPaymentDate,
		PaymentHistory:  history,
		Version:         doc.Version,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}, nil
}
