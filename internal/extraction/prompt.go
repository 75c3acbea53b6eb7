package extraction

// extractionPrompt is the shared instruction used by every provider.
// The structured-output schema enforces the shape; the prompt explains
// the fields and the null-on-uncertainty rule for providers that only
// follow instructions.
const extractionPrompt = `You are analyzing a photo of a purchase receipt. Carefully read all text in the image and extract the following information:

1. **Merchant name**: the store or business name, usually the largest text at the top of the receipt. Examples: "Walmart", "CVS Pharmacy", "Trader Joe's".

2. **Total amount**: the final total or amount due, usually at the bottom, labeled "TOTAL", "Amount Due", "Grand Total" or similar. Extract only the numeric value (e.g. 42.75 for $42.75).

3. **Transaction date**: the purchase date, converted to ISO 8601 format (YYYY-MM-DD).

4. **Category**: the best-fitting spending category. Choose exactly one of: Food & Drink, Groceries, Transportation, Utilities, Rent/Mortgage, Shopping, Entertainment, Health & Wellness, Travel, Other.

Return ONLY a JSON object with exactly these keys:
{
  "transaction_name": "Merchant Name",
  "total_amount": 0.00,
  "transaction_date": "YYYY-MM-DD",
  "category": "Category Name"
}

Important:
- Every key must be present. If you cannot read a field with confidence, set its value to null instead of guessing.
- total_amount must be a number, not a string.
- Do not include any text before or after the JSON.
- Do not use markdown code blocks.`
