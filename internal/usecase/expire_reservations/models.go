package expire_reservations

// Response результат одного прохода
type Response struct {
	Expired   int64 // pending -> expired
	Completed int64 // confirmed -> completed
}
