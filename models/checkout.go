package models

// CheckoutRequest is the payload for POST /checkout. The amount is never part
// of it; the orchestrator always recomputes the total from the cart.
type CheckoutRequest struct {
	Token string `json:"token" binding:"required"` // single-use payment source token

	BillingAddressCity        string `json:"billing_address_city"`
	BillingAddressCountry     string `json:"billing_address_country"`
	BillingAddressCountryCode string `json:"billing_address_country_code"`
	BillingAddressLine1       string `json:"billing_address_line1"`
	BillingAddressState       string `json:"billing_address_state"`
	BillingAddressZip         string `json:"billing_address_zip"`
	BillingName               string `json:"billing_name"`

	ShippingAddressCity        string `json:"shipping_address_city"`
	ShippingAddressCountry     string `json:"shipping_address_country"`
	ShippingAddressCountryCode string `json:"shipping_address_country_code"`
	ShippingAddressLine1       string `json:"shipping_address_line1"`
	ShippingAddressState       string `json:"shipping_address_state"`
	ShippingAddressZip         string `json:"shipping_address_zip"`
	ShippingName               string `json:"shipping_name"`
}

// Metadata flattens the billing/shipping fields into the free-form key/value
// map forwarded to the payment processor for fraud and record keeping.
func (r *CheckoutRequest) Metadata() map[string]string {
	return map[string]string{
		"billing_address_city":          r.BillingAddressCity,
		"billing_address_country":       r.BillingAddressCountry,
		"billing_address_country_code":  r.BillingAddressCountryCode,
		"billing_address_line1":         r.BillingAddressLine1,
		"billing_address_state":         r.BillingAddressState,
		"billing_address_zip":           r.BillingAddressZip,
		"billing_name":                  r.BillingName,
		"shipping_address_city":         r.ShippingAddressCity,
		"shipping_address_country":      r.ShippingAddressCountry,
		"shipping_address_country_code": r.ShippingAddressCountryCode,
		"shipping_address_line1":        r.ShippingAddressLine1,
		"shipping_address_state":        r.ShippingAddressState,
		"shipping_address_zip":          r.ShippingAddressZip,
		"shipping_name":                 r.ShippingName,
	}
}
