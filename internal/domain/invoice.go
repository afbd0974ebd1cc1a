package domain

// Invoice is the email sent to customers who pay cash on delivery.
type Invoice struct {
	OrderID      string
	ToEmail      string
	Subject      string
	CustomerName string
	Items        string
	Total        string
}
