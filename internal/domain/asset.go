package domain

// AssetStatus enumerates inventory condition states.
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "Active"
	AssetStatusMaintenance AssetStatus = "Maintenance"
	AssetStatusBroken      AssetStatus = "Broken"
)

// IsValid reports whether the status is one of the enumerated values.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusBroken:
		return true
	}
	return false
}

// Asset is an inventory record. Tickets reference assets only through a
// denormalized display string, so deleting an asset never touches tickets.
type Asset struct {
	ID           int64
	Name         string
	Category     string
	SerialNumber string
	AssignedTo   string
	Status       AssetStatus
}

// DisplayLabel is the string tickets store in related_asset.
func (a Asset) DisplayLabel() string {
	return a.Name + " (" + a.SerialNumber + ")"
}
