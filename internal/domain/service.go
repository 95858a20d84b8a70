package domain

type Service struct {
	ID          int64   `json:"id"`
	OwnerID     string  `json:"ownerID"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int32   `json:"duration"` // 分钟
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageURL"`
}
