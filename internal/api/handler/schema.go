package handler

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse acknowledges a write.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *userResponse `json:"user,omitempty"`
}

type meResponse struct {
	Success bool          `json:"success"`
	User    *userResponse `json:"user"`
}

// --- Catalog ---

type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Category    string  `json:"category"    validate:"required,oneof=vitamins supplements aromatherapy"`
	AgeGroup    string  `json:"ageGroup"    validate:"required,oneof=toddler child teen adult elderly all"`
	ImageURL    string  `json:"imageUrl"`
}

type productResponse struct {
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

type productEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Product *productResponse `json:"product,omitempty"`
}

// --- Cart ---

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Subtotal  float64 `json:"subtotal"`
}

type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
	ItemCount   int                `json:"itemCount"`
}

// --- Orders ---

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

type createOrderResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	OrderID     string  `json:"orderId"`
	TotalAmount float64 `json:"totalAmount"`
}

type orderItemResponse struct {
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Items           []orderItemResponse `json:"items"`
	TotalAmount     float64             `json:"totalAmount"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shippingAddress"`
	CreatedAt       int64               `json:"createdAt"`
}

type updateOrderStatusRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status"  validate:"required"`
}

type orderEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Order   *orderResponse `json:"order,omitempty"`
}

// --- Images ---

type uploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
}
