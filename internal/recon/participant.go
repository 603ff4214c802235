package recon

import (
	"regexp"

	"linguaops/internal"
	"linguaops/internal/meta"
)

// BuildParticipant assembles the canonical registrant view for one
// order. Metadata wins where an alias list finds a value; the
// structured billing block fills the rest.
func BuildParticipant(order internal.Order) internal.Participant {
	m := meta.BuildMap(order)

	p := internal.Participant{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		FirstName:   order.Billing.FirstName,
		LastName:    order.Billing.LastName,
		Email:       order.Billing.Email,
		Phone:       order.Billing.Phone,
		Payment:     order.PaymentMethodTitle,
		Price:       order.Total,
		Status:      order.Status,
		Address1:    order.Billing.Address1,
		Address2:    order.Billing.Address2,
		City:        order.Billing.City,
		Postcode:    order.Billing.Postcode,
		Country:     order.Billing.Country,
	}
	if p.Payment == "" {
		p.Payment = order.PaymentMethod
	}

	if v, ok := meta.ExtractLoose(m, meta.AliasBirthDate); ok {
		p.BirthDate = meta.NormalizeDateDE(v)
	}
	if v, ok := meta.ExtractLoose(m, meta.AliasBirthPlace); ok {
		p.BirthPlace = v
	}
	if v, ok := meta.ExtractLoose(m, meta.AliasBirthCountry); ok {
		p.BirthCountry = meta.CountryAlpha3(v)
	}
	if v, ok := meta.ExtractLoose(m, meta.AliasNationality); ok {
		p.Nationality = meta.CountryAlpha3(v)
	} else if order.Billing.Country != "" {
		p.Nationality = meta.CountryAlpha3(order.Billing.Country)
	}
	if v, ok := meta.ExtractLoose(m, meta.AliasCertificate); ok {
		p.CertificateDelivery = v
	}

	p.ExamKind = meta.DetectLevel(m, order.LineItems)
	p.ExamPart = meta.ResolveExamPart(m)

	if v, ok := meta.ExtractLoose(m, meta.AliasExamDate); ok {
		p.ExamDate = meta.NormalizeDateDE(v)
	}
	if v, ok := meta.ExtractLoose(m, meta.AliasBookingDate); ok {
		p.BookingDate = meta.NormalizeDateDE(v)
	} else if order.DateCreated != "" {
		p.BookingDate = meta.NormalizeDateDE(order.DateCreated)
	}

	return p
}

var (
	rePost   = regexp.MustCompile(`(?i)post`)
	rePickup = regexp.MustCompile(`(?i)abhol`)
)

// CertificateDisplay maps the raw delivery-mode value to the wording
// the roster sheets use.
func CertificateDisplay(raw string) string {
	switch {
	case rePost.MatchString(raw):
		return "Per Post"
	case rePickup.MatchString(raw):
		return "Abholen im Büro"
	default:
		return raw
	}
}
