package mongostore

import (
	"time"

	"ecommerce-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	IsAdmin   bool               `bson:"isAdmin"`
	About     string             `bson:"about,omitempty"`
	History   []interface{}      `bson:"history"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type categoryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type photoDocument struct {
	Data        []byte `bson:"data,omitempty"`
	ContentType string `bson:"contentType"`
}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    primitive.ObjectID `bson:"category"`
	Quantity    int                `bson:"quantity"`
	Sold        int                `bson:"sold"`
	Photo       *photoDocument     `bson:"photo,omitempty"`
	Shipping    bool               `bson:"shipping"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toUserModel(d *userDocument) *models.User {
	history := d.History
	if history == nil {
		history = []interface{}{}
	}
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		IsAdmin:      d.IsAdmin,
		About:        d.About,
		History:      history,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toCategoryModel(d *categoryDocument) models.Category {
	return models.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Slug:      d.Slug,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toProductModel(d *productDocument) models.Product {
	p := models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       d.Price,
		CategoryID:  d.Category.Hex(),
		Quantity:    d.Quantity,
		Sold:        d.Sold,
		Shipping:    d.Shipping,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Photo != nil && d.Photo.ContentType != "" {
		p.HasPhoto = true
		if len(d.Photo.Data) > 0 {
			p.Photo = &models.Photo{Data: d.Photo.Data, ContentType: d.Photo.ContentType}
		}
	}
	return p
}
