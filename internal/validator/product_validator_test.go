package validator

import (
	"testing"

	"inventory/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func validCandidate() model.ProductCandidate {
	return model.ProductCandidate{
		Name:        "Mouse",
		SKU:         "abc-1",
		Quantity:    5,
		Description: "x",
	}
}

func TestValidateProduct_Success_NormalizesSKU(t *testing.T) {
	out, errs := ValidateProduct(validCandidate())

	assert.Empty(t, errs)
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "ABC-1", out.SKU)
	assert.Equal(t, "Mouse", out.Name)
	assert.Equal(t, int64(5), out.Quantity)
	assert.Equal(t, "x", out.Description)
}

func TestValidateProduct_TrimsTextFields(t *testing.T) {
	c := model.ProductCandidate{Name: "  USB-C Hub ", SKU: " tech-hub-001 ", Quantity: 75, Description: "\t7-in-1 hub\n"}

	out, errs := ValidateProduct(c)

	assert.Empty(t, errs)
	assert.Equal(t, "USB-C Hub", out.Name)
	assert.Equal(t, "TECH-HUB-001", out.SKU)
	assert.Equal(t, "7-in-1 hub", out.Description)
}

func TestValidateProduct_EmptyName(t *testing.T) {
	for _, name := range []string{"", " ", "\t\n  "} {
		c := validCandidate()
		c.Name = name

		_, errs := ValidateProduct(c)

		assert.Equal(t, FieldErrors{FieldName: MsgNameRequired}, errs, "name=%q", name)
	}
}

func TestValidateProduct_SKUFormat(t *testing.T) {
	c := validCandidate()
	c.SKU = "abc_1"

	_, errs := ValidateProduct(c)

	assert.Equal(t, FieldErrors{FieldSKU: MsgSKUFormat}, errs)
}

func TestValidateProduct_SKURequired(t *testing.T) {
	c := validCandidate()
	c.SKU = "   "

	_, errs := ValidateProduct(c)

	assert.Equal(t, FieldErrors{FieldSKU: MsgSKURequired}, errs)
}

func TestValidateProduct_SKUWithInnerSpace(t *testing.T) {
	c := validCandidate()
	c.SKU = "ab c"

	_, errs := ValidateProduct(c)

	assert.Equal(t, MsgSKUFormat, errs[FieldSKU])
}

func TestValidateProduct_Quantity(t *testing.T) {
	c := validCandidate()
	c.Quantity = -1
	_, errs := ValidateProduct(c)
	assert.Equal(t, FieldErrors{FieldQuantity: MsgQuantityNegative}, errs)

	c.Quantity = 0
	out, errs := ValidateProduct(c)
	assert.Empty(t, errs)
	assert.Equal(t, int64(0), out.Quantity)
}

func TestValidateProduct_DescriptionRequired(t *testing.T) {
	c := validCandidate()
	c.Description = " "

	_, errs := ValidateProduct(c)

	assert.Equal(t, FieldErrors{FieldDescription: MsgDescriptionRequired}, errs)
}

// 複数エラーはまとめて返る
func TestValidateProduct_AllErrorsTogether(t *testing.T) {
	_, errs := ValidateProduct(model.ProductCandidate{Name: "", SKU: "a b", Quantity: -3, Description: ""})

	assert.Equal(t, FieldErrors{
		FieldName:        MsgNameRequired,
		FieldSKU:         MsgSKUFormat,
		FieldQuantity:    MsgQuantityNegative,
		FieldDescription: MsgDescriptionRequired,
	}, errs)
}
