package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"ministore_back_end/internal/models"
)

// GenerateCODPaymentQR encode la référence de règlement à la livraison
// en QR base64, prêt à mettre dans <img src="...">
func GenerateCODPaymentQR(orderID string, amount float64) (string, error) {
	payload := fmt.Sprintf("MINISTORE-COD\n%s\nEUR%.2f", orderID, amount)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateInvoiceHTML construit la facture de commande (prix figés
// depuis les lignes, total recalculé).
func GenerateInvoiceHTML(order models.Order, qrBase64 string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.Price, item.Cost())
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Facture %s</title></head>
<body style="font-family: Arial, sans-serif; color: #333; padding: 24px;">
	<h1>MiniStore — Facture</h1>
	<p>Commande %s du %s</p>
	<p>%s %s<br>%s<br>%s %s</p>
	<table border="1" cellpadding="8" cellspacing="0" style="border-collapse: collapse; width: 100%%;">
		<tr><th>Produit</th><th>Quantité</th><th>Prix unitaire</th><th>Total</th></tr>
		%s
	</table>
	<h2>Total : %.2f€</h2>
	<p>Règlement à la livraison. Présentez ce code au livreur :</p>
	<img src="%s" width="128" height="128" alt="QR règlement">
</body>
</html>`,
		order.ID, order.ID, order.CreatedAt.Format("02/01/2006"),
		order.FirstName, order.LastName, order.Address, order.PostalCode, order.City,
		itemsHTML, order.TotalCost(), qrBase64)
}

// RenderInvoicePDF imprime la facture HTML en PDF via un Chrome headless.
func RenderInvoicePDF(html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
