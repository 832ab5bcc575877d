package domain

import "github.com/m04kA/SMC-ReservationService/pkg/types"

func ts(s string) types.TimeString {
	return types.MustTimeString(s)
}
