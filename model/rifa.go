package model

// TicketStatus is derived from set membership, never stored: a number is
// taken when the gateway reports it sold or reserved, selected when it sits
// in the local selection, available otherwise.
type TicketStatus string

const (
	TicketAvailable TicketStatus = "available"
	TicketTaken     TicketStatus = "taken"
	TicketSelected  TicketStatus = "selected"
)

type Client struct {
	Name  string `json:"name"`
	Cpf   string `json:"cpf"`
	Phone string `json:"phone"`
}

type SoldTicket struct {
	Number int32  `json:"number"`
	Client Client `json:"client"`
}

type RecentBuyer struct {
	Name      string  `json:"name"`
	Numbers   []int32 `json:"numbers"`
	CreatedAt string  `json:"created_at"`
}

type UnavailableNumbersResponse struct {
	Unavailable []int32 `json:"unavailable"`
}

type RecentBuyersResponse struct {
	Buyers []RecentBuyer `json:"buyers"`
}

type SoldNumbersResponse struct {
	Sold []SoldTicket `json:"sold"`
}
