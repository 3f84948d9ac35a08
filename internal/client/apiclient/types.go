package apiclient

// Roles a User can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Order statuses accepted by the admin status endpoint.
var OrderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type RegisterData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	AgeGroup    string  `json:"ageGroup"`
	ImageURL    string  `json:"imageUrl"`
	CreatedAt   int64   `json:"createdAt"`
}

// ProductInput is the body of admin create/update product requests.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	AgeGroup    string  `json:"ageGroup"`
	ImageURL    string  `json:"imageUrl"`
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Subtotal  float64 `json:"subtotal"`
}

type CartResponse struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	ItemCount   int        `json:"itemCount"`
}

type OrderItem struct {
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	CreatedAt       int64       `json:"createdAt"`
}

// --- Response envelopes ---

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type MeResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

type CreateOrderResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	OrderID     string  `json:"orderId"`
	TotalAmount float64 `json:"totalAmount"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Product *Product `json:"product"`
}

type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
}
