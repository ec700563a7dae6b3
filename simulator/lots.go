package simulator

import "github.com/kilianp07/smartpark/core/model"

// Lots returns the static lot catalog shown on the map.
func Lots() []model.ParkingLot {
	return []model.ParkingLot{
		{ID: "1", Name: "Central Plaza Garage", Lat: 30, Lng: 10, TotalSpots: 200, CurrentAvailable: 45, BaseRate: 10},
		{ID: "2", Name: "Tech Park Zone A", Lat: 60, Lng: 40, TotalSpots: 150, CurrentAvailable: 120, BaseRate: 8},
		{ID: "3", Name: "Riverside Walk", Lat: 20, Lng: 70, TotalSpots: 80, CurrentAvailable: 5, BaseRate: 15},
	}
}
