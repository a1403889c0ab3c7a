package model

// Schedule is one timetabled run of a train between two stations.
// Times are kept as entered; nothing checks their format or order.
//
// Fields:
//  ID               – unique schedule identifier.
//  TrainID          – train that operates this run.
//  DepartureTime    – free-form departure timestamp.
//  ArrivalTime      – free-form arrival timestamp.
//  DepartureStation – station the run leaves from.
//  ArrivalStation   – station the run ends at.
type Schedule struct {
	ID               string `json:"schedule_id"`
	TrainID          string `json:"train_id"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	DepartureStation string `json:"departure_station"`
	ArrivalStation   string `json:"arrival_station"`
}
