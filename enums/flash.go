package enums

type FlashKind string

const (
	FlashStatus  FlashKind = "status"
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)
