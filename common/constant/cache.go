package constant

const (
	// UnavailableNumbersKey is the redis set holding every reserved or sold
	// ticket number. Reservation happens with SADD before the PSP round trip.
	UnavailableNumbersKey = "rifa:unavailable"
)
