package domain

type Client struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"ownerID"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}
