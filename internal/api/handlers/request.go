package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"recipe-website/domain"
)

// requester builds the caller identity set by the auth middlewares. An
// anonymous caller has an empty UserID.
func requester(c *fiber.Ctx) domain.Requester {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return domain.Requester{UserID: userID, IsStaff: role == domain.RoleAdmin}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// parseBody decodes a JSON body, or for multipart requests the JSON held
// in the "data" form field.
func parseBody(c *fiber.Ctx, out any) error {
	if !isMultipart(c) {
		return c.BodyParser(out)
	}
	data := c.FormValue("data")
	if data == "" {
		return nil
	}
	return c.App().Config().JSONDecoder([]byte(data), out)
}

// formImage reads an optional uploaded file. Reading stops one byte past
// the upload cap so oversized files are still reported as such.
func formImage(c *fiber.Ctx, field string) (*domain.ImageFile, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	file, err := headers[0].Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	return &domain.ImageFile{Filename: headers[0].Filename, Data: data}, nil
}
