package controllers

// CustomError untuk error domain yang pesannya aman ditampilkan ke client.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrNoPermission = &CustomError{"you do not have permission"}
	ErrActiveOrder  = &CustomError{"table has an active order, please wait"}
	ErrNoOrderItems = &CustomError{"no order items"}
	ErrTableExists  = &CustomError{"table already exists"}
)
