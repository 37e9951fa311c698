package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tablevoice/tablevoice/store"
)

func (d *DB) EnsureBookingTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS booking (
			id                 INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uid                VARCHAR(256) NOT NULL UNIQUE,
			customer_name      VARCHAR(256) NOT NULL,
			number_of_guests   INT NOT NULL,
			booking_date       VARCHAR(32) NOT NULL,
			booking_time       VARCHAR(32) NOT NULL,
			cuisine_preference VARCHAR(256) NOT NULL DEFAULT 'Any',
			special_requests   TEXT NOT NULL,
			seating_preference VARCHAR(32) NOT NULL DEFAULT 'Any',
			weather_info       TEXT NOT NULL,
			status             VARCHAR(32) NOT NULL DEFAULT 'Confirmed',
			created_ts         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_booking_customer_name (customer_name),
			INDEX idx_booking_status (status)
		)`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) CreateBooking(ctx context.Context, create *store.Booking) (*store.Booking, error) {
	weatherInfo, err := json.Marshal(create.WeatherInfo)
	if err != nil {
		return nil, err
	}
	stmt := "INSERT INTO `booking` (`uid`, `customer_name`, `number_of_guests`, `booking_date`, `booking_time`, `cuisine_preference`, `special_requests`, `seating_preference`, `weather_info`, `status`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	result, err := d.db.ExecContext(ctx, stmt,
		create.UID, create.CustomerName, create.NumberOfGuests, create.BookingDate, create.BookingTime,
		create.CuisinePreference, create.SpecialRequests, create.SeatingPreference, string(weatherInfo), create.Status,
	)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	create.ID = int32(rawID)
	// Fetch it back to populate the timestamp.
	return d.GetBooking(ctx, &store.FindBooking{UID: &create.UID})
}

func (d *DB) ListBookings(ctx context.Context, find *store.FindBooking) ([]*store.Booking, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`id` = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "`uid` = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "`status` = ?"), append(args, *v)
	}
	if v := find.CustomerNamePattern; v != nil {
		where, args = append(where, "LOWER(`customer_name`) LIKE CONCAT('%', LOWER(?), '%')"), append(args, *v)
	}
	order := "`created_ts` DESC, `id` DESC"
	if find.OrderByBookingDateDesc {
		order = "`booking_date` DESC, `id` DESC"
	}
	query := fmt.Sprintf(
		`SELECT id, uid, customer_name, number_of_guests, booking_date, booking_time,
			cuisine_preference, special_requests, seating_preference, weather_info, status, UNIX_TIMESTAMP(created_ts)
		 FROM booking WHERE %s ORDER BY %s`,
		strings.Join(where, " AND "), order,
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Booking
	for rows.Next() {
		b := &store.Booking{}
		var weatherInfo string
		if err := rows.Scan(
			&b.ID, &b.UID, &b.CustomerName, &b.NumberOfGuests, &b.BookingDate, &b.BookingTime,
			&b.CuisinePreference, &b.SpecialRequests, &b.SeatingPreference, &weatherInfo, &b.Status, &b.CreatedTs,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(weatherInfo), &b.WeatherInfo); err != nil {
			b.WeatherInfo = map[string]any{}
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (d *DB) GetBooking(ctx context.Context, find *store.FindBooking) (*store.Booking, error) {
	list, err := d.ListBookings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) UpdateBooking(ctx context.Context, update *store.UpdateBooking) (*store.Booking, error) {
	set, args := []string{}, []any{}
	if v := update.Status; v != nil {
		set, args = append(set, "`status` = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return d.GetBooking(ctx, &store.FindBooking{UID: &update.UID})
	}
	args = append(args, update.UID)
	stmt := fmt.Sprintf("UPDATE `booking` SET %s WHERE `uid` = ?", strings.Join(set, ", "))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return d.GetBooking(ctx, &store.FindBooking{UID: &update.UID})
}

func (d *DB) DeleteBooking(ctx context.Context, uid string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM `booking` WHERE `uid` = ?", uid)
	return err
}
