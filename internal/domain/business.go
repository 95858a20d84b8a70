package domain

type Business struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"ownerID"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
