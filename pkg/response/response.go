package jsonres

type Body struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(message string, data interface{}) Body {
	return Body{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func Error(code, message string, data interface{}) Body {
	return Body{
		Status:  "error",
		Code:    code,
		Message: message,
		Data:    data,
	}
}
