package models

type Product struct {
    ID          string  `json:"id"`
    Name        string  `json:"name"`
    Description string  `json:"description,omitempty"`
    Price       float64 `json:"price"`
    Image       string  `json:"image,omitempty"`
    CategoryID  string  `json:"category_id,omitempty"`
    InStock     bool    `json:"in_stock"`
}

type Category struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

type ProductList struct {
    Products []Product `json:"products"`
    Total    int       `json:"total"`
    Page     int       `json:"page"`
}
