package dto

type StationStatusResponse struct {
	StationID      string              `json:"station_id"`
	AvailableCount int                 `json:"available_count"`
	TotalCount     int                 `json:"total_count"`
	Connectors     []ConnectorResponse `json:"connectors"`
}
