package ptr

// NilIfZero возвращает nil для нулевого значения
// Нужен для необязательных полей ответа, которые upstream опускает
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}

	return &v
}
