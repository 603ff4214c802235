package internal

// MetaEntry is one key/value pair attached to an order or a line item.
// The store emits several spellings for the key (key, name,
// display_key) and the value (value, display_value, option) depending
// on which plugin wrote the entry; all are kept so the normalizer can
// index the coerced value under every usable form.
type MetaEntry struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayKey   string `json:"display_key"`
	Value        any    `json:"value"`
	DisplayValue any    `json:"display_value"`
	Option       any    `json:"option"`
}

type LineItem struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	SKU         string      `json:"sku"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	Total       string      `json:"total"`
	MetaData    []MetaEntry `json:"meta_data"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
}

type Order struct {
	ID                 int         `json:"id"`
	Number             string      `json:"number"`
	Status             string      `json:"status"`
	Total              string      `json:"total"`
	Currency           string      `json:"currency"`
	DateCreated        string      `json:"date_created"`
	PaymentMethod      string      `json:"payment_method"`
	PaymentMethodTitle string      `json:"payment_method_title"`
	Billing            Billing     `json:"billing"`
	MetaData           []MetaEntry `json:"meta_data"`
	LineItems          []LineItem  `json:"line_items"`
}

// Participant is the canonical registrant view assembled from an
// order's billing block plus its normalized metadata. It is computed
// on demand and never stored as its own entity.
type Participant struct {
	OrderID             int     `json:"orderId"`
	OrderNumber         string  `json:"orderNumber"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	BirthDate           string  `json:"birthDate"`
	BirthPlace          string  `json:"birthPlace"`
	BirthCountry        string  `json:"birthCountry"`
	Nationality         string  `json:"nationality"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	ExamKind            string  `json:"examKind"`
	ExamPart            string  `json:"examPart"`
	ExamDate            string  `json:"examDate"`
	BookingDate         string  `json:"bookingDate"`
	CertificateDelivery string  `json:"certificateDelivery"`
	Payment             string  `json:"payment"`
	Price               string  `json:"price"`
	Status              string  `json:"status"`
	Address1            string  `json:"address1"`
	Address2            string  `json:"address2"`
	City                string  `json:"city"`
	Postcode            string  `json:"postcode"`
	Country             string  `json:"country"`
}

type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxMatched TransactionStatus = "matched"
	TxIgnored TransactionStatus = "ignored"
)

// BankTransaction is one date-delimited block parsed out of a
// statement PDF's extracted text. Date, sender and amount are nullable
// because parsing is best effort.
type BankTransaction struct {
	ID            int
	PDFSourceID   string
	Date          *string
	SenderName    *string
	Amount        *string
	ReferenceText string
	Status        TransactionStatus
}

// MatchCandidate links a bank transaction to an order at a confidence
// tier: 1 = order number in reference and amount within tolerance,
// 2 = order number without matching amount or name plus amount,
// 3 = name similarity alone.
type MatchCandidate struct {
	TransactionID int
	OrderID       int
	OrderNumber   string
	CustomerName  string
	Confidence    int
	Reason        string
	NameScore     *float64
	AmountMatch   bool
	NumberInRef   bool
}

type ExamDefinition struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Date string `json:"date"`
}

// SheetTab mirrors the spreadsheet tab metadata the filing and
// duplicate-check paths work against.
type SheetTab struct {
	Title string
	GID   int64
	Index int64
}

type DuplicateVerdict string

const (
	VerdictUnique    DuplicateVerdict = "unique"
	VerdictDuplicate DuplicateVerdict = "duplicate"
	VerdictNoColumn  DuplicateVerdict = "no-col"
	VerdictError     DuplicateVerdict = "error"
)

// DuplicateResult reports where a 4-digit code was found, if anywhere.
type DuplicateResult struct {
	Verdict DuplicateVerdict `json:"verdict"`
	Tab     string           `json:"tab,omitempty"`
	Column  string           `json:"column,omitempty"`
	Row     int              `json:"row,omitempty"`
	Err     string           `json:"error,omitempty"`
}
