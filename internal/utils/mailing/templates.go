package mailing

import (
	"bytes"
	"html/template"
)

var resetPasswordTemplate = template.Must(template.New("reset").Parse(`<p>Hi {{.Username}},</p>
<p>Someone asked to reset the password of your recipe account. Follow the link below to choose a new one. It expires in {{.ValidMinutes}} minutes.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not ask for this, you can ignore this email.</p>`))

type ResetPasswordData struct {
	Username     string
	Link         string
	ValidMinutes int
}

func RenderResetPassword(data ResetPasswordData) (string, error) {
	var buf bytes.Buffer
	if err := resetPasswordTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
