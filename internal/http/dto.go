package http

import (
	"time"

	"github.com/example/desk-booking/internal/application"
	"github.com/example/desk-booking/internal/persistence"
)

const dayFormat = "2006-01-02"

func parseDay(value string) (time.Time, error) {
	return time.ParseInLocation(dayFormat, value, time.UTC)
}

type deskDTO struct {
	ID         string `json:"id"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	DeskType   string `json:"desk_type"`
	Label      string `json:"label"`
	HolderName string `json:"holder_name,omitempty"`
}

func toDeskDTO(desk persistence.Desk) deskDTO {
	return deskDTO{
		ID:         desk.ID,
		Row:        desk.Row,
		Col:        desk.Col,
		DeskType:   string(desk.DeskType),
		Label:      desk.Label,
		HolderName: desk.HolderName,
	}
}

type bookingDTO struct {
	ID       string `json:"id"`
	DeskID   string `json:"desk_id"`
	Day      string `json:"day"`
	Slot     string `json:"slot"`
	BookedBy string `json:"booked_by"`
}

func toBookingDTO(booking persistence.Booking) bookingDTO {
	return bookingDTO{
		ID:       booking.ID,
		DeskID:   booking.DeskID,
		Day:      booking.Day.Format(dayFormat),
		Slot:     string(booking.Slot),
		BookedBy: booking.BookedBy,
	}
}

func toBookingDTOs(bookings []persistence.Booking) []bookingDTO {
	dtos := make([]bookingDTO, len(bookings))
	for i, booking := range bookings {
		dtos[i] = toBookingDTO(booking)
	}
	return dtos
}

type coverageDTO struct {
	ID           string `json:"id"`
	DeskID       string `json:"desk_id"`
	StartDay     string `json:"start_day"`
	EndDay       string `json:"end_day"`
	TempOccupant string `json:"temp_occupant"`
	Note         string `json:"note,omitempty"`
}

func toCoverageDTO(coverage persistence.Coverage) coverageDTO {
	return coverageDTO{
		ID:           coverage.ID,
		DeskID:       coverage.DeskID,
		StartDay:     coverage.StartDay.Format(dayFormat),
		EndDay:       coverage.EndDay.Format(dayFormat),
		TempOccupant: coverage.TempOccupant,
		Note:         coverage.Note,
	}
}

type deskStatusDTO struct {
	deskDTO
	CurrentOccupant  string      `json:"current_occupant,omitempty"`
	HolderAway       bool        `json:"holder_away"`
	AwayStart        string      `json:"away_start,omitempty"`
	AwayEnd          string      `json:"away_end,omitempty"`
	AwayTempOccupant string      `json:"away_temp_occupant,omitempty"`
	BookingAM        *bookingDTO `json:"booking_am,omitempty"`
	BookingPM        *bookingDTO `json:"booking_pm,omitempty"`
}

func toDeskStatusDTO(status application.DeskStatus) deskStatusDTO {
	dto := deskStatusDTO{
		deskDTO:          toDeskDTO(status.Desk),
		CurrentOccupant:  status.CurrentOccupant,
		HolderAway:       status.HolderAway,
		AwayTempOccupant: status.AwayTempOccupant,
	}
	if status.AwayStart != nil {
		dto.AwayStart = status.AwayStart.Format(dayFormat)
	}
	if status.AwayEnd != nil {
		dto.AwayEnd = status.AwayEnd.Format(dayFormat)
	}
	if status.BookingAM != nil {
		booking := toBookingDTO(*status.BookingAM)
		dto.BookingAM = &booking
	}
	if status.BookingPM != nil {
		booking := toBookingDTO(*status.BookingPM)
		dto.BookingPM = &booking
	}
	return dto
}

func toDeskStatusDTOs(statuses []application.DeskStatus) []deskStatusDTO {
	dtos := make([]deskStatusDTO, len(statuses))
	for i, status := range statuses {
		dtos[i] = toDeskStatusDTO(status)
	}
	return dtos
}
