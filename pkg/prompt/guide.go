package prompt

// DefaultCollaborationGuide is the process-wide collaboration contract
// injected into prompts as {{collaboration_guide}}. It instructs agents to
// perform file work first and to close every response with the strict JSON
// control block the driver extracts ("files first, JSON last").
//
// It is a documented default, not a hidden global: override it per engine
// with the WithCollaborationGuide option.
const DefaultCollaborationGuide = `## Collaboration & Output Standards

### 1. File Operations
- All final deliverables (code, documents, reports) must be written into the shared workspace under the collab/ directory.
- Perform every file creation, modification, or read BEFORE writing your summary.
- Always reference files by full path (for example collab/design.md).

### 2. Communication
- Use natural, professional language when addressing your collaborators.
- State your decisions, suggestions, and open questions explicitly.

### 3. Strict Output Format
You must follow this output order exactly so the system can parse your response:

1. File operations and reasoning first. Do NOT emit JSON here.
2. A single JSON control block at the VERY END of your reply. Nothing may follow it.

JSON template:

{
  "content": "Short summary of what you did (e.g. 'Finished the design document').",
  "decisions": {
    "key_decision_1": true,
    "key_decision_2": false
  }
}

The decisions mapping drives the workflow state machine: fill in the flags
the current state asks for.`
