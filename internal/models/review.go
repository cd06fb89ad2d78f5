package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"schoolzy/internal/utils"
)

// Review is one user's rating of one school. The author name and picture
// are snapshots taken at creation time and are not refreshed when the
// profile changes later.
type Review struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID           string             `bson:"schoolId" json:"schoolId" validate:"required"`
	UserID             string             `bson:"userId" json:"userId" validate:"required"`
	UserName           string             `bson:"user_name" json:"user_name"`
	UserProfilePicture string             `bson:"user_profile_picture" json:"user_profile_picture"`
	Rating             int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	ReviewText         string             `bson:"review_text" json:"review_text" validate:"required,min=10,max=1000"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (r Review) Validate() error {
	validate := utils.GetValidator()
	if err := validate.Struct(r); err != nil {
		errs := utils.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
