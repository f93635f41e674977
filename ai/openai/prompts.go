package openai

import (
	"fmt"
)

const guidelinePromptTemplate = `You are a Legal Data Extractor. Link the guideline document to the regulation clauses it implements.

[CRITICAL RULE - HANDLING BRACKETS]:
1. Direct citation (KEEP BRACKETS):
   - If the text says "ข้อ 36 (2)", extract "ข้อ 36 (2)".
   - The bracket must immediately follow the clause number (ignoring small spaces).

2. List item (IGNORE BRACKETS):
   - If the text says "ข้อ 18 ... prose ... (1) ... (2)", extract ONLY "ข้อ 18".
   - If the bracket is separated from the clause number by prose, it is a list item, NOT a sub-clause.

3. General rules:
   - Default regulation: "%s"
   - Ignore Acts (พระราชบัญญัติ).
   - Ignore paragraph references (วรรค).

[EXAMPLES]:
- Text: "ตามข้อ 36 (2) (3)" -> clauses: ["ข้อ 36 (2)", "ข้อ 36 (3)"] (immediate follow)
- Text: "ข้อ 18 กำหนดหลักเกณฑ์... (1) ... (2)" -> clauses: ["ข้อ 18"] (separated by prose)
- Text: "ข้อ 5 วรรคหนึ่ง" -> clauses: ["ข้อ 5"]

[OUTPUT]:
Respond with ONLY a JSON object of this exact shape, no other text:
{
  "found": true,
  "regulation": "...",
  "clauses": ["..."]
}`

const orderPromptTemplate = `You are a Legal Syntax Parser. Your ONLY job is to extract clauses that are explicitly cited as the legal basis of the order.

[STRICT FILTERING RULES]:
1. THE "ATTACHMENT" RULE (CRITICAL):
   - You may ONLY extract a clause (ข้อ) if it is grammatically attached to the regulation name: "%s".
   - Valid: "...อาศัยอำนาจตามข้อ 6 ของระเบียบสำนักงานการตรวจเงินแผ่นดิน..." -> extract "ข้อ 6".
   - Valid: "...และข้อ 6 ข้อ 7 ประกอบข้อ 41 ของระเบียบ..." -> extract "ข้อ 6", "ข้อ 7", "ข้อ 41".
   - Invalid: "1. ให้สำนัก..." (a list item, not a citation) -> ignore.
   - Invalid: "...อาศัยอำนาจตาม พ.ร.บ. ... มาตรา 5" (cites an Act, not the Regulation) -> ignore.

2. IGNORE ORPHANED NUMBERS:
   - If "ข้อ 1" or "1." is NOT in the same sentence or phrase as "ของระเบียบ...", it is NOT a citation.
   - Do not infer relationships across paragraphs.

3. DEFAULT NAME:
   - Use the regulation name above as the "regulation" value, but ONLY if the text explicitly mentions it.

[LEVEL OF DETAIL RULE]:
- Extract down to the numeric sub-clause level only, e.g. "ข้อ 26 (1)".
- Do NOT include Thai alphabetical sub-items like (ก), (ข), (ค).
- If the text says "ข้อ 26 (1) (ก)", output only "ข้อ 26 (1)".

[EXAMPLES]:
- Text: "ตามข้อ 26 (1) (ก)" -> clauses: ["ข้อ 26 (1)"]
- Text: "ข้อ 5 (2) (ข)" -> clauses: ["ข้อ 5 (2)"]
- Text: "...ผู้ว่าการฯ อาศัยอำนาจตาม พ.ร.บ. ... มาตรา 5 ... ออกคำสั่งดังนี้ 1. ให้สำนัก..." -> found: false (authority comes from the Act; "1." is a list item)

[OUTPUT]:
Respond with ONLY a JSON object of this exact shape, no other text:
{
  "found": true/false,
  "regulation": "...",
  "clauses": ["..."]
}`

const keywordPromptTemplate = `You are a search keyword extractor for Thai legal documents.

Given a user query, extract the 3-8 most distinctive keywords or short phrases to use in a full-text search. Keep Thai legal terms intact (e.g. "ข้อ 26", "ระเบียบ", "หลักเกณฑ์"). Drop filler words and question particles.

Respond with ONLY a JSON object of this exact shape, no other text:
{
  "keywords": ["..."]
}`

// buildReferencePrompt returns the system prompt for the given extraction mode.
func buildReferencePrompt(mode string, defaultRegulation string) string {
	if mode == "order" {
		return fmt.Sprintf(orderPromptTemplate, defaultRegulation)
	}
	return fmt.Sprintf(guidelinePromptTemplate, defaultRegulation)
}
