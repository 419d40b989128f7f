package validation

import (
	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// NewApplication cleans and validates a create request in place.
func NewApplication(in *domain.NewApplicationInput) error {
	in.Name = Clean(in.Name)
	in.DisplayName = Clean(in.DisplayName)
	cleanOptional(&in.Description)

	if err := ApplicationName(in.Name); err != nil {
		return err
	}
	if err := ValidateStringLength("display_name", in.DisplayName, 1, MaxDisplayName); err != nil {
		return err
	}
	if in.Description != nil {
		if err := ValidateStringLength("description", *in.Description, 0, MaxDescription); err != nil {
			return err
		}
	}
	return nil
}

// UpdateApplication cleans and validates a partial update in place.
func UpdateApplication(in *domain.UpdateApplicationInput) error {
	cleanPatch(in.Name)
	cleanPatch(in.DisplayName)
	cleanPatch(in.Description)

	if in.Name != nil {
		if err := ApplicationName(*in.Name); err != nil {
			return err
		}
	}
	if in.DisplayName != nil {
		if err := ValidateStringLength("display_name", *in.DisplayName, 1, MaxDisplayName); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if err := ValidateStringLength("description", *in.Description, 0, MaxDescription); err != nil {
			return err
		}
	}
	return nil
}

// NewResponsible cleans and validates a create request in place.
func NewResponsible(in *domain.NewResponsibleInput) error {
	in.Code = Clean(in.Code)
	in.Name = Clean(in.Name)

	if err := ResponsibleCode(in.Code); err != nil {
		return err
	}
	return ValidateStringLength("name", in.Name, 1, MaxName)
}

// UpdateResponsible cleans and validates a partial update in place.
func UpdateResponsible(in *domain.UpdateResponsibleInput) error {
	cleanPatch(in.Code)
	cleanPatch(in.Name)

	if in.Code != nil {
		if err := ResponsibleCode(*in.Code); err != nil {
			return err
		}
	}
	if in.Name != nil {
		if err := ValidateStringLength("name", *in.Name, 1, MaxName); err != nil {
			return err
		}
	}
	if in.ClearCategory && in.CategoryID != nil {
		return domain.Invalid("category_id", "cannot be set and cleared at once")
	}
	return nil
}

// NewPermission cleans and validates a create request in place.
func NewPermission(in *domain.NewPermissionInput) error {
	in.Code = Clean(in.Code)
	in.Name = Clean(in.Name)
	cleanOptional(&in.Description)

	if in.ApplicationID == uuid.Nil {
		return domain.Invalid("application_id", "is required")
	}
	if err := PermissionCode(in.Code); err != nil {
		return err
	}
	if err := ValidateStringLength("name", in.Name, 1, MaxName); err != nil {
		return err
	}
	if in.Description != nil {
		return ValidateStringLength("description", *in.Description, 0, MaxDescription)
	}
	return nil
}

// UpdatePermission cleans and validates a partial update in place.
func UpdatePermission(in *domain.UpdatePermissionInput) error {
	cleanPatch(in.Code)
	cleanPatch(in.Name)
	cleanPatch(in.Description)

	if in.Code != nil {
		if err := PermissionCode(*in.Code); err != nil {
			return err
		}
	}
	if in.Name != nil {
		if err := ValidateStringLength("name", *in.Name, 1, MaxName); err != nil {
			return err
		}
	}
	if in.Description != nil {
		return ValidateStringLength("description", *in.Description, 0, MaxDescription)
	}
	return nil
}

// Grant cleans and validates a grant request in place.
func Grant(in *domain.GrantInput) error {
	in.UserID = Clean(in.UserID)
	cleanOptional(&in.GrantedBy)

	if err := UserID(in.UserID); err != nil {
		return err
	}
	if in.PermissionID == uuid.Nil {
		return domain.Invalid("permission_id", "is required")
	}
	return nil
}
