package recognizer

// BuildTTNPrompt returns the extraction prompt for scanned TTN delivery
// notes (товарно-транспортная накладная).
func BuildTTNPrompt() string {
	return `You are a document data extraction assistant. Analyze the provided scan of a Russian waybill / delivery note (ТТН, товарно-транспортная накладная, УПД or ТОРГ-12) and extract ALL data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- One scan may contain SEVERAL logical documents (e.g. several waybills photographed together). Return one array element per logical document.
- Extract EVERY material line item from every page. Do not skip, summarize, or merge items.
- Keep quantities as they appear in the document, as strings (e.g. "12,5").
- Normalize dates to DD.MM.YYYY format.
- Keep names and addresses in the original language of the document.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation, just the raw JSON value.

The top-level value must be a JSON array following this schema:
[
  {
    "document_number": "",
    "document_date": "",
    "sender": "",
    "recipient": "",
    "carrier": "",
    "shipping_address": "",
    "delivery_address": "",
    "items": [
      {
        "name": "",
        "quantity": "",
        "unit": ""
      }
    ]
  }
]

If a field is not present in the document, use an empty string. If the scan is not a delivery note at all, return an empty array: [].`
}
